package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultAddr          = "127.0.0.1:8090"
	defaultSweepInterval = 200 * time.Millisecond
	defaultStoreBackend  = "sqlite"
)

type Config struct {
	DBPath        string
	UploadDir     string
	Addr          string
	StoreBackend  string
	RedisAddr     string
	SweepInterval time.Duration
}

func LoadConfig(args []string) (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get cwd: %w", err)
	}

	defaultDBPath := filepath.Join(cwd, "flowboard.db")
	defaultUploadDir := filepath.Join(cwd, "uploads")

	dbPath := envOrDefault("FLOWBOARD_DB_PATH", defaultDBPath)
	uploadDir := envOrDefault("FLOWBOARD_UPLOAD_DIR", defaultUploadDir)
	addr := addrFromEnv(defaultAddr)
	backend := envOrDefault("FLOWBOARD_STORE", defaultStoreBackend)
	redisAddr := os.Getenv("FLOWBOARD_REDIS_ADDR")
	sweepInterval := defaultSweepInterval
	if sweepEnv := os.Getenv("FLOWBOARD_SWEEP_INTERVAL"); sweepEnv != "" {
		parsed, err := time.ParseDuration(sweepEnv)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FLOWBOARD_SWEEP_INTERVAL: %w", err)
		}
		if parsed <= 0 {
			return Config{}, errors.New("FLOWBOARD_SWEEP_INTERVAL must be positive")
		}
		sweepInterval = parsed
	}

	flagSet := flag.NewFlagSet("flowboard-d", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagDB := flagSet.String("db", dbPath, "path to SQLite database")
	flagUploadDir := flagSet.String("upload-dir", uploadDir, "directory for stored uploads")
	flagAddr := flagSet.String("addr", addr, "HTTP listen address")
	flagBackend := flagSet.String("store", backend, "workflow store backend: sqlite|redis")
	flagRedisAddr := flagSet.String("redis-addr", redisAddr, "redis address when store=redis")
	flagSweep := flagSet.String("sweep-interval", sweepInterval.String(), "canvas dirty-check sweep interval")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
			return Config{}, err
		}
		return Config{}, err
	}

	sweepParsed, err := time.ParseDuration(*flagSweep)
	if err != nil {
		return Config{}, fmt.Errorf("invalid sweep interval: %w", err)
	}
	if sweepParsed <= 0 {
		return Config{}, errors.New("sweep interval must be positive")
	}

	config := Config{
		DBPath:        resolvePath(*flagDB, cwd),
		UploadDir:     resolvePath(*flagUploadDir, cwd),
		Addr:          strings.TrimSpace(*flagAddr),
		StoreBackend:  normalizeBackend(*flagBackend),
		RedisAddr:     strings.TrimSpace(*flagRedisAddr),
		SweepInterval: sweepParsed,
	}

	if config.Addr == "" {
		return Config{}, errors.New("addr cannot be empty")
	}

	switch config.StoreBackend {
	case "sqlite":
	case "redis":
		if config.RedisAddr == "" {
			return Config{}, errors.New("store=redis requires redis-addr")
		}
	default:
		return Config{}, fmt.Errorf("unsupported store backend: %s", config.StoreBackend)
	}

	return config, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func addrFromEnv(fallback string) string {
	if value := os.Getenv("FLOWBOARD_ADDR"); value != "" {
		return value
	}
	if port := os.Getenv("FLOWBOARD_PORT"); port != "" {
		return fmt.Sprintf("127.0.0.1:%s", port)
	}
	return fallback
}

func resolvePath(path string, cwd string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return trimmed
	}
	if filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Join(cwd, trimmed)
}

func normalizeBackend(backend string) string {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "sqlite", "sqlite3":
		return "sqlite"
	case "redis":
		return "redis"
	default:
		return strings.ToLower(strings.TrimSpace(backend))
	}
}
