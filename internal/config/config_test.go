package config

import (
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_FuzzyThresholdAboveOne(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Search: SearchConfig{FuzzyThreshold: 1.5},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for threshold above 1")
	}
}

func TestValidate_ElevatedKeyNotInAPIKeys(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Auth: AuthConfig{
			APIKeys:      []string{"key1"},
			ElevatedKeys: []string{"rogue"},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for elevated key outside api_keys")
	}
}

func TestValidate_ElevatedKeySubset(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Auth: AuthConfig{
			APIKeys:      []string{"key1", "admin"},
			ElevatedKeys: []string{"admin"},
		},
		Search: SearchConfig{FuzzyThreshold: 0.9},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Search.FuzzyThreshold != 0.9 {
		t.Errorf("expected FuzzyThreshold=0.9, got %v", cfg.Search.FuzzyThreshold)
	}
	if cfg.Storage.KeyPrefix != "searchapi:" {
		t.Errorf("expected KeyPrefix='searchapi:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{ReadinessTimeout: 15},
		Search:   SearchConfig{FuzzyThreshold: 0.5},
		Storage:  StorageConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Search.FuzzyThreshold != 0.5 {
		t.Errorf("expected FuzzyThreshold=0.5, got %v", cfg.Search.FuzzyThreshold)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SEARCHAPI_TEST_PASSWORD", "hunter2")

	in := []byte("password: ${SEARCHAPI_TEST_PASSWORD}\nprefix: ${SEARCHAPI_TEST_MISSING:-fallback:}\nempty: ${SEARCHAPI_TEST_UNSET}")
	out := string(expandEnvVars(in))

	want := "password: hunter2\nprefix: fallback:\nempty: "
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}
