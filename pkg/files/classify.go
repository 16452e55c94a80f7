// Package files implements the upload and classification service: stored
// uploads on the local filesystem and a fixed-taxonomy classifier over MIME
// type and file extension.
package files

import (
	"path/filepath"
	"strings"
)

// Category is the fixed classification taxonomy for uploaded files.
type Category string

const (
	CategoryImage        Category = "image"
	CategoryDocument     Category = "document"
	CategorySpreadsheet  Category = "spreadsheet"
	CategoryPresentation Category = "presentation"
	CategoryAudio        Category = "audio"
	CategoryVideo        Category = "video"
	CategoryArchive      Category = "archive"
	CategoryCode         Category = "code"
	CategoryText         Category = "text"
	CategoryOther        Category = "other"
)

var mimeCategories = map[string]Category{
	"application/pdf":    CategoryDocument,
	"application/msword": CategoryDocument,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": CategoryDocument,
	"application/vnd.oasis.opendocument.text":                                 CategoryDocument,
	"application/rtf":                 CategoryDocument,
	"application/vnd.ms-excel":        CategorySpreadsheet,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": CategorySpreadsheet,
	"text/csv":                        CategorySpreadsheet,
	"application/vnd.ms-powerpoint":   CategoryPresentation,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": CategoryPresentation,
	"application/zip":                 CategoryArchive,
	"application/x-tar":               CategoryArchive,
	"application/gzip":                CategoryArchive,
	"application/x-rar-compressed":    CategoryArchive,
	"application/x-7z-compressed":     CategoryArchive,
	"application/json":                CategoryCode,
	"application/javascript":          CategoryCode,
	"application/x-sh":                CategoryCode,
	"application/xml":                 CategoryCode,
	"text/html":                       CategoryCode,
	"text/css":                        CategoryCode,
	"text/plain":                      CategoryText,
	"text/markdown":                   CategoryText,
}

var extCategories = map[string]Category{
	"jpg": CategoryImage, "jpeg": CategoryImage, "png": CategoryImage,
	"gif": CategoryImage, "bmp": CategoryImage, "svg": CategoryImage,
	"webp": CategoryImage, "ico": CategoryImage,

	"pdf": CategoryDocument, "doc": CategoryDocument, "docx": CategoryDocument,
	"odt": CategoryDocument, "rtf": CategoryDocument,

	"xls": CategorySpreadsheet, "xlsx": CategorySpreadsheet,
	"csv": CategorySpreadsheet, "ods": CategorySpreadsheet,

	"ppt": CategoryPresentation, "pptx": CategoryPresentation,
	"odp": CategoryPresentation, "key": CategoryPresentation,

	"mp3": CategoryAudio, "wav": CategoryAudio, "ogg": CategoryAudio,
	"flac": CategoryAudio, "m4a": CategoryAudio,

	"mp4": CategoryVideo, "avi": CategoryVideo, "mov": CategoryVideo,
	"mkv": CategoryVideo, "webm": CategoryVideo,

	"zip": CategoryArchive, "tar": CategoryArchive, "gz": CategoryArchive,
	"rar": CategoryArchive, "7z": CategoryArchive, "bz2": CategoryArchive,

	"go": CategoryCode, "py": CategoryCode, "js": CategoryCode,
	"ts": CategoryCode, "java": CategoryCode, "c": CategoryCode,
	"cpp": CategoryCode, "rs": CategoryCode, "rb": CategoryCode,
	"sh": CategoryCode, "html": CategoryCode, "css": CategoryCode,
	"json": CategoryCode, "yaml": CategoryCode, "yml": CategoryCode,
	"sql": CategoryCode,

	"txt": CategoryText, "md": CategoryText, "log": CategoryText,
}

// Classify maps a file to its category. The MIME type wins when it is
// specific; generic or missing types fall back to the extension.
func Classify(filename, mimeType string) Category {
	mimeType = normalizeMime(mimeType)

	if cat, ok := mimeCategories[mimeType]; ok {
		return cat
	}
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return CategoryImage
	case strings.HasPrefix(mimeType, "audio/"):
		return CategoryAudio
	case strings.HasPrefix(mimeType, "video/"):
		return CategoryVideo
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if cat, ok := extCategories[ext]; ok {
		return cat
	}

	// A generic text type with an unknown extension is still text.
	if strings.HasPrefix(mimeType, "text/") {
		return CategoryText
	}
	return CategoryOther
}

func normalizeMime(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
