package config

import (
	"testing"
	"time"

	"frietkot_server/structs"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "go syntax", value: "90s", want: 90 * time.Second},
		{name: "plain seconds", value: "30", want: 30 * time.Second},
		{name: "garbage falls back", value: "soon", want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, getEnvAsTimeDuration("TEST_DURATION", time.Minute))
		})
	}

	assert.Equal(t, time.Minute, getEnvAsTimeDuration("TEST_DURATION_UNSET", time.Minute))
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("TEST_ORIGINS", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvAsSlice("TEST_ORIGINS", nil))
}

func TestLoad(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("UPLOAD_MAX_BYTES", "1048576")
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, 800, cfg.Storage.MaxWidth)
	assert.Equal(t, 800, cfg.Storage.MaxHeight)
	assert.Equal(t, int64(1<<20), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, 80, cfg.Storage.Quality)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 60, cfg.RateLimit.AdminLimit)
}

func TestLoadLocalImageDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "local")

	cfg := Load()

	assert.Equal(t, 300, cfg.Storage.MaxWidth)
	assert.Equal(t, "/images", cfg.Storage.PublicPrefix)
	assert.Equal(t, "products", cfg.Storage.Folder)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.Local, Location(nil))
	assert.Equal(t, time.Local, Location(&structs.ServerConfig{Timezone: "Local"}))
	assert.Equal(t, time.Local, Location(&structs.ServerConfig{Timezone: "Nowhere/Atlantis"}))
	assert.Equal(t, "Europe/Brussels", Location(&structs.ServerConfig{Timezone: "Europe/Brussels"}).String())
}
