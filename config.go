package main

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Duration   string
	Retries    int
	Cooldown   time.Duration
	Reset      string
	ShmGlobs   []string
	DropCaches bool
	OutputDir  string
	ResultsDB  string
	Echo       bool
	Aggregate  bool
	Targets    []string
}

// LoadEnv reads .env (if present) into the process environment without
// overriding variables that are already set.
func LoadEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, filename := range filenames {
		err := godotenv.Load(filename)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		Logger.Debugf("loaded environment from %v", filename)
	}
	return nil
}

func ConfigFromEnv() Config {
	return Config{
		Duration:   StringEnv("PTMBENCH_DURATION", DefaultDuration),
		Retries:    IntEnv("PTMBENCH_RETRIES", DefaultRetryCap),
		Cooldown:   DurationEnv("PTMBENCH_COOLDOWN", DefaultCooldown),
		Reset:      StringEnv("PTMBENCH_RESET", "make persistencyclean"),
		ShmGlobs:   ListEnv("PTMBENCH_SHM_GLOBS", nil),
		DropCaches: BoolEnv("PTMBENCH_DROP_CACHES", false),
		OutputDir:  StringEnv("PTMBENCH_OUTPUT_DIR", "."),
		ResultsDB:  StringEnv("PTMBENCH_RESULTS_DB", ""),
	}
}

func (c Config) Settings() Settings {
	return Settings{
		Duration:  c.Duration,
		RetryCap:  c.Retries,
		Cooldown:  c.Cooldown,
		OutputDir: c.OutputDir,
		Aggregate: c.Aggregate,
	}
}

func StringEnv(key string, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func IntEnv(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func DurationEnv(key string, def time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func BoolEnv(key string, def bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

func ListEnv(key string, def []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
