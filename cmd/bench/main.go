// README: Smoke and load runner against a live API; executes HTTP/DB/Redis checks and prints results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	bench := NewRunner(cfg)
	results := bench.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case statusPass:
			pass++
		case statusFail:
			fail++
		case statusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL      string
	DSN          string
	RedisAddr    string
	ClaimWaybill string
	Timeout      time.Duration
	Concurrency  int
	Duration     time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("SIRPARCEL_BENCH_BASE_URL", "http://localhost:8080"), "API base URL")
	flag.StringVar(&cfg.DSN, "dsn", os.Getenv("SIRPARCEL_DB_DSN"), "Postgres DSN of the document store (empty skips)")
	flag.StringVar(&cfg.RedisAddr, "redis", os.Getenv("SIRPARCEL_REDIS_ADDR"), "Redis address (empty skips)")
	flag.StringVar(&cfg.ClaimWaybill, "claim-waybill", "", "unclaimed waybill for the concurrent claim check; it ends up claimed (empty skips)")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("SIRPARCEL_BENCH_TIMEOUT", 60*time.Second), "Total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", envOrDefaultInt("SIRPARCEL_BENCH_CONCURRENCY", 20), "Concurrency for load tests")
	flag.DurationVar(&cfg.Duration, "duration", envOrDefaultDuration("SIRPARCEL_BENCH_DURATION", 10*time.Second), "Duration for load tests")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		if n > 0 {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
