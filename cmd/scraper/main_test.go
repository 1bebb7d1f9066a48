package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"legitapply/internal/config"
	"legitapply/internal/scraper"
	"legitapply/internal/throttle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		configPath = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTestConfig(t *testing.T, storePath string) string {
	t.Helper()
	for _, k := range []string{"LEGITAPPLY_CONFIG", "MAX_WEEKLY_RUNS", "REQUEST_LOG_PATH", "LINKEDIN_PASSWORD", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID"} {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "linkedin:\n  password: hunter2\nthrottle:\n  max_runs: 2\n  store_path: " + storePath + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestStatusCommand(t *testing.T) {
	store := filepath.Join(t.TempDir(), "request_log.json")
	cfgPath := writeTestConfig(t, store)

	out, err := executeCommand(t, "status", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "0/2")
	assert.Contains(t, out, "A run is allowed now")
	assert.NoFileExists(t, store, "status never writes")

	now := time.Now()
	require.NoError(t, throttle.NewStore(store).Save([]time.Time{now.Add(-time.Hour), now.Add(-time.Minute)}))

	out, err = executeCommand(t, "status", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2/2")
	assert.Contains(t, out, "Next slot at")
}

func TestCheckConfigCommand_RedactsSecrets(t *testing.T) {
	cfgPath := writeTestConfig(t, filepath.Join(t.TempDir(), "request_log.json"))

	out, err := executeCommand(t, "check-config", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "max_runs: 2")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "hunter2")
}

func TestRootCommand_DeniedRunExitsCleanly(t *testing.T) {
	store := filepath.Join(t.TempDir(), "request_log.json")
	cfgPath := writeTestConfig(t, store)
	now := time.Now()
	require.NoError(t, throttle.NewStore(store).Save([]time.Time{now.Add(-time.Hour), now.Add(-time.Minute)}))

	_, err := executeCommand(t, "--config", cfgPath)
	assert.NoError(t, err)

	entries, err := throttle.NewStore(store).Load()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRootCommand_DeniedRunSkipsCredentials(t *testing.T) {
	keyring.MockInitWithError(errors.New("secret service not available"))
	for _, k := range []string{"LEGITAPPLY_CONFIG", "MAX_WEEKLY_RUNS", "REQUEST_LOG_PATH", "LINKEDIN_EMAIL", "LINKEDIN_PASSWORD", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID"} {
		t.Setenv(k, "")
	}

	dir := t.TempDir()
	store := filepath.Join(dir, "request_log.json")
	cfgPath := filepath.Join(dir, "config.yaml")
	body := "linkedin:\n  email: me@example.com\nthrottle:\n  max_runs: 2\n  store_path: " + store + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))
	now := time.Now()
	require.NoError(t, throttle.NewStore(store).Save([]time.Time{now.Add(-time.Hour), now.Add(-time.Minute)}))

	resolved := 0
	orig := resolveCredentials
	resolveCredentials = func(cfg *config.Config) scraper.Credentials {
		resolved++
		return orig(cfg)
	}
	t.Cleanup(func() { resolveCredentials = orig })

	_, err := executeCommand(t, "--config", cfgPath)
	require.NoError(t, err)
	assert.Zero(t, resolved, "credentials are not resolved for a denied run")
	assert.NoFileExists(t, store+".lock")
}
