package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://localhost:8000/api" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.RequestTimeout != 0 {
		t.Fatalf("expected no request timeout by default, got %s", cfg.RequestTimeout)
	}
	if cfg.RelayInterval != 900*time.Second {
		t.Fatalf("RelayInterval = %s", cfg.RelayInterval)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("API_URL", " https://detector.example.com/api ")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "https://detector.example.com/api" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("RequestTimeout = %s", cfg.RequestTimeout)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{name: "empty api url", key: "api_url", val: ""},
		{name: "negative timeout", key: "request_timeout_seconds", val: -1},
		{name: "zero relay interval", key: "relay_interval", val: 0},
		{name: "zero ttl", key: "storage_ttl_seconds", val: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)
			if _, err := load(v); err == nil {
				t.Fatalf("expected error for %s", tt.key)
			}
		})
	}
}
