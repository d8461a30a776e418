package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DASHBOARD_CONFIG", "FIREBASE_CREDENTIALS", "FIRESTORE_COLLECTION",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "HTTP_ADDR",
		"RELOAD_SCHEDULE", "SESSION_TTL", "DASHBOARD_TITLE", "DASHBOARD_SUBTITLE",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "incidents", cfg.Collection)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "*/30 * * * *", cfg.ReloadSchedule)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "Construction Safety Insights", cfg.Title)
	assert.Equal(t, "건설산업 안전사고 분석 대시보드", cfg.Subtitle)
	assert.Empty(t, cfg.FirebaseCredentials)
	assert.False(t, cfg.AIEnabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("FIREBASE_CREDENTIALS", "e30=")
	t.Setenv("FIRESTORE_COLLECTION", "accidents")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:9999/v1")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("RELOAD_SCHEDULE", "0 * * * *")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("DASHBOARD_TITLE", "안전 대시보드")
	t.Setenv("DASHBOARD_SUBTITLE", "테스트")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "e30=", cfg.FirebaseCredentials)
	assert.Equal(t, "accidents", cfg.Collection)
	assert.True(t, cfg.AIEnabled())
	assert.Equal(t, "http://localhost:9999/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "0 * * * *", cfg.ReloadSchedule)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "안전 대시보드", cfg.Title)
	assert.Equal(t, "테스트", cfg.Subtitle)
}

func TestLoad_EmptyScheduleDisablesReload(t *testing.T) {
	clearEnv(t)
	t.Setenv("RELOAD_SCHEDULE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.ReloadSchedule)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	t.Setenv("DASHBOARD_CONFIG", writeConfig(t, `
[server]
addr = ":7000"
session_ttl = "30m"

[firestore]
collection = "from-file"

[reload]
schedule = "*/5 * * * *"

[dashboard]
title = "File Title"
`))
	t.Setenv("FIRESTORE_COLLECTION", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "from-env", cfg.Collection, "environment wins over the file")
	assert.Equal(t, "*/5 * * * *", cfg.ReloadSchedule)
	assert.Equal(t, "File Title", cfg.Title)
	assert.Equal(t, DefaultSubtitle, cfg.Subtitle)
}

func TestLoad_FileCanDisableReload(t *testing.T) {
	clearEnv(t)
	t.Setenv("DASHBOARD_CONFIG", writeConfig(t, "[reload]\nschedule = \"\"\n"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.ReloadSchedule)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad schedule", map[string]string{"RELOAD_SCHEDULE": "every minute"}, "RELOAD_SCHEDULE"},
		{"bad ttl", map[string]string{"SESSION_TTL": "soon"}, "SESSION_TTL"},
		{"negative ttl", map[string]string{"SESSION_TTL": "-1h"}, "SESSION_TTL"},
		{"bad base url", map[string]string{"OPENAI_BASE_URL": "not a url"}, "OPENAI_BASE_URL"},
		{"missing file", map[string]string{"DASHBOARD_CONFIG": "/nonexistent/dashboard.toml"}, "read config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DASHBOARD_CONFIG", writeConfig(t, "[server\naddr ="))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}
