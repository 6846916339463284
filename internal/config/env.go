package config

import (
	"os"
	"strconv"
	"strings"
)

// Env is a snapshot of environment variables taken at load time.
// Passing the snapshot into Load keeps configuration construction free of
// hidden os.Getenv reads, so tests can feed in any environment they want.
type Env map[string]string

// OSEnv captures the current process environment.
func OSEnv() Env {
	env := make(Env)
	for _, entry := range os.Environ() {
		if key, value, ok := strings.Cut(entry, "="); ok {
			env[key] = value
		}
	}
	return env
}

func (e Env) getEnv(key, defaultVal string) string {
	if val, ok := e[key]; ok && val != "" {
		return val
	}
	return defaultVal
}

func (e Env) getEnvFloat(key string, defaultVal float64) float64 {
	if val, ok := e[key]; ok && val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func (e Env) getEnvInt(key string, defaultVal int) int {
	if val, ok := e[key]; ok && val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
