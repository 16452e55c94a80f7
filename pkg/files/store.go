package files

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for lookups of unknown upload ids.
var ErrNotFound = errors.New("upload not found")

// FileInfo describes one stored upload.
type FileInfo struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	Category    Category  `json:"category"`
	UploadTime  time.Time `json:"uploadTime"`
}

// Store keeps uploads on the local filesystem. Each upload is written as
// data/<id>_<filename> plus a meta/<id>.json record; writes go through a
// temp file and rename so readers never observe partial content.
type Store struct {
	rootPath string
}

// NewStore creates a store rooted at rootPath, creating the layout if needed.
func NewStore(rootPath string) (*Store, error) {
	for _, dir := range []string{filepath.Join(rootPath, "data"), filepath.Join(rootPath, "meta")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return &Store{rootPath: rootPath}, nil
}

// Save classifies and stores an upload, returning its metadata.
func (s *Store) Save(ctx context.Context, filename, contentType string, reader io.Reader) (FileInfo, error) {
	info := FileInfo{
		ID:          uuid.NewString(),
		Filename:    sanitizeFilename(filename),
		ContentType: contentType,
		Category:    Classify(filename, contentType),
		UploadTime:  time.Now().UTC(),
	}

	size, err := s.writeAtomic(s.dataPath(info), reader)
	if err != nil {
		return FileInfo{}, err
	}
	info.Size = size

	meta, err := json.Marshal(info)
	if err != nil {
		os.Remove(s.dataPath(info))
		return FileInfo{}, fmt.Errorf("failed to encode file metadata: %w", err)
	}
	if _, err := s.writeAtomic(s.metaPath(info.ID), strings.NewReader(string(meta))); err != nil {
		os.Remove(s.dataPath(info))
		return FileInfo{}, err
	}
	return info, nil
}

// Stat returns the metadata for one upload.
func (s *Store) Stat(ctx context.Context, id string) (FileInfo, error) {
	raw, err := os.ReadFile(s.metaPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return FileInfo{}, fmt.Errorf("file %s: %w", id, ErrNotFound)
		}
		return FileInfo{}, fmt.Errorf("failed to read metadata for %s: %w", id, err)
	}
	var info FileInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return FileInfo{}, fmt.Errorf("failed to decode metadata for %s: %w", id, err)
	}
	return info, nil
}

// Open returns the stored content of an upload along with its metadata.
func (s *Store) Open(ctx context.Context, id string) (io.ReadCloser, FileInfo, error) {
	info, err := s.Stat(ctx, id)
	if err != nil {
		return nil, FileInfo{}, err
	}
	f, err := os.Open(s.dataPath(info))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, FileInfo{}, fmt.Errorf("file %s: %w", id, ErrNotFound)
		}
		return nil, FileInfo{}, fmt.Errorf("failed to open file %s: %w", id, err)
	}
	return f, info, nil
}

// List returns metadata for all uploads, newest first.
func (s *Store) List(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(filepath.Join(s.rootPath, "meta"))
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	infos := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := s.Stat(ctx, strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].UploadTime.After(infos[j].UploadTime) })
	return infos, nil
}

// Delete removes an upload and its metadata. It reports whether the upload
// existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	info, err := s.Stat(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := os.Remove(s.dataPath(info)); err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to delete file %s: %w", id, err)
	}
	if err := os.Remove(s.metaPath(id)); err != nil {
		return false, fmt.Errorf("failed to delete metadata for %s: %w", id, err)
	}
	return true, nil
}

func (s *Store) dataPath(info FileInfo) string {
	return filepath.Join(s.rootPath, "data", info.ID+"_"+info.Filename)
}

func (s *Store) metaPath(id string) string {
	return filepath.Join(s.rootPath, "meta", id+".json")
}

func (s *Store) writeAtomic(fullPath string, reader io.Reader) (int64, error) {
	dir := filepath.Dir(fullPath)
	tempFile, err := os.CreateTemp(dir, "temp-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tempFile.Close()

	size, err := io.Copy(tempFile, reader)
	if err != nil {
		os.Remove(tempFile.Name())
		return 0, fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		os.Remove(tempFile.Name())
		return 0, fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempFile.Name())
		return 0, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tempFile.Name(), fullPath); err != nil {
		os.Remove(tempFile.Name())
		return 0, fmt.Errorf("failed to rename temp file to %s: %w", fullPath, err)
	}
	return size, nil
}

// sanitizeFilename strips any path components so stored keys stay flat.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
