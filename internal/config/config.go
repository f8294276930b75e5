package config

import (
	"os"
	"strconv"
)

const DefaultDBPath = "~/.postino/graph.db"

// DBPath returns the database path from POSTINO_DB env var,
// falling back to DefaultDBPath. An explicit "memory" keeps the
// graph seed-only, with no file behind it.
func DBPath() string {
	if env := os.Getenv("POSTINO_DB"); env != "" {
		return env
	}
	return DefaultDBPath
}

// PageLimit returns the default page size from POSTINO_PAGE_LIMIT.
// Zero means the serving boundary picks its own default.
func PageLimit() int {
	return envInt("POSTINO_PAGE_LIMIT")
}

// PageMax returns the page size ceiling from POSTINO_PAGE_MAX.
// Zero means the serving boundary picks its own ceiling.
func PageMax() int {
	return envInt("POSTINO_PAGE_MAX")
}

func envInt(key string) int {
	env := os.Getenv(key)
	if env == "" {
		return 0
	}
	n, err := strconv.Atoi(env)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
