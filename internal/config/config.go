package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Env holds process settings that are not part of the monitoring config:
// where logs go, the optional status API and sweep parallelism.
type Env struct {
	LogDir      string   // logs directory
	LogLevel    string   // debug | info | warn | error
	StatusAddr  string   // status API bind address, empty disables it
	APIKeys     []string // keys accepted by the status API, empty means open
	Concurrency int      // parallel probes per sweep, 1 keeps sweeps sequential
	StatusRPM   int      // status API requests per minute per client IP
	StatusBurst int
}

// FromEnv reads the environment, after loading a .env file if one exists.
// Unparseable numbers keep their defaults.
func FromEnv() Env {
	_ = godotenv.Load()

	return Env{
		LogDir:      getenv("LOG_DIR", "logs"),
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		StatusAddr:  os.Getenv("STATUS_ADDR"),
		APIKeys:     splitList(os.Getenv("API_KEYS")),
		Concurrency: envInt("CHECK_CONCURRENCY", 1, 1),
		StatusRPM:   envInt("STATUS_RPM", 120, 0),
		StatusBurst: envInt("STATUS_BURST", 60, 1),
	}
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def, min int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= min {
			return n
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
