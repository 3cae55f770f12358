package config

import (
	"testing"
)

func TestFromEnv_ParsesAndDefaults(t *testing.T) {
	t.Setenv("LOG_DIR", "./_testlogs")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STATUS_ADDR", ":9090")
	t.Setenv("API_KEYS", "key_a, key_b,")
	t.Setenv("CHECK_CONCURRENCY", "4")
	t.Setenv("STATUS_RPM", "111")
	t.Setenv("STATUS_BURST", "22")

	cfg := FromEnv()

	if cfg.StatusAddr != ":9090" || cfg.LogDir != "./_testlogs" || cfg.LogLevel != "debug" {
		t.Fatalf("addr/logdir/level wrong: %+v", cfg)
	}
	if len(cfg.APIKeys) != 2 || cfg.APIKeys[1] != "key_b" {
		t.Fatalf("api keys wrong: %+v", cfg.APIKeys)
	}
	if cfg.Concurrency != 4 || cfg.StatusRPM != 111 || cfg.StatusBurst != 22 {
		t.Fatalf("numbers wrong: %+v", cfg)
	}
}

func TestFromEnv_BadNumbersKeepDefaults(t *testing.T) {
	t.Setenv("LOG_DIR", "")
	t.Setenv("STATUS_ADDR", "")
	t.Setenv("API_KEYS", "")
	t.Setenv("CHECK_CONCURRENCY", "0")
	t.Setenv("STATUS_RPM", "many")
	t.Setenv("STATUS_BURST", "-3")

	cfg := FromEnv()

	if cfg.LogDir != "logs" {
		t.Fatalf("want default log dir, got %q", cfg.LogDir)
	}
	if cfg.StatusAddr != "" || len(cfg.APIKeys) != 0 {
		t.Fatalf("status API should be off by default: %+v", cfg)
	}
	if cfg.Concurrency != 1 || cfg.StatusRPM != 120 || cfg.StatusBurst != 60 {
		t.Fatalf("defaults not kept: %+v", cfg)
	}
}
