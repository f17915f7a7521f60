package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("PTMBENCH_TEST_INT", "7")
	t.Setenv("PTMBENCH_TEST_BAD_INT", "seven")
	t.Setenv("PTMBENCH_TEST_DURATION", "1m30s")
	t.Setenv("PTMBENCH_TEST_BOOL", "true")
	t.Setenv("PTMBENCH_TEST_LIST", "/dev/shm/*_shared*, /mnt/pmem0/pmdk*,,")
	t.Setenv("PTMBENCH_TEST_EMPTY", "")

	require.Equal(t, 7, IntEnv("PTMBENCH_TEST_INT", 1))
	require.Equal(t, 1, IntEnv("PTMBENCH_TEST_BAD_INT", 1))
	require.Equal(t, 1, IntEnv("PTMBENCH_TEST_MISSING", 1))
	require.Equal(t, 90*time.Second, DurationEnv("PTMBENCH_TEST_DURATION", time.Second))
	require.Equal(t, time.Second, DurationEnv("PTMBENCH_TEST_INT", time.Second))
	require.True(t, BoolEnv("PTMBENCH_TEST_BOOL", false))
	require.Equal(t, []string{"/dev/shm/*_shared*", "/mnt/pmem0/pmdk*"}, ListEnv("PTMBENCH_TEST_LIST", nil))
	require.Nil(t, ListEnv("PTMBENCH_TEST_MISSING", nil))
	require.Equal(t, "", StringEnv("PTMBENCH_TEST_EMPTY", "default"))
	require.Equal(t, "default", StringEnv("PTMBENCH_TEST_MISSING", "default"))
}

func TestConfigFromEnv(t *testing.T) {
	for _, key := range []string{"PTMBENCH_DURATION", "PTMBENCH_RETRIES", "PTMBENCH_COOLDOWN", "PTMBENCH_RESET", "PTMBENCH_OUTPUT_DIR"} {
		t.Setenv(key, "")
		require.Nil(t, os.Unsetenv(key))
	}
	cfg := ConfigFromEnv()
	require.Equal(t, Settings{Duration: "20", RetryCap: 10, Cooldown: 2 * time.Second, OutputDir: "."}, cfg.Settings())
	require.Equal(t, "make persistencyclean", cfg.Reset)

	t.Setenv("PTMBENCH_RETRIES", "3")
	t.Setenv("PTMBENCH_COOLDOWN", "0s")
	cfg = ConfigFromEnv()
	require.Equal(t, 3, cfg.Retries)
	require.Equal(t, time.Duration(0), cfg.Cooldown)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.Nil(t, os.WriteFile(path, []byte("PTMBENCH_TEST_LOADED=yes\nPTMBENCH_TEST_KEPT=file\n"), 0o644))
	t.Setenv("PTMBENCH_TEST_KEPT", "process")
	t.Setenv("PTMBENCH_TEST_LOADED", "")
	require.Nil(t, os.Unsetenv("PTMBENCH_TEST_LOADED"))

	require.Nil(t, LoadEnv(path, filepath.Join(dir, "missing.env")))
	require.Equal(t, "yes", os.Getenv("PTMBENCH_TEST_LOADED"))
	require.Equal(t, "process", os.Getenv("PTMBENCH_TEST_KEPT"))
}
