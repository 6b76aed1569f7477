// README: Smoke cases for the HTTP API plus document store, Redis and load checks.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		httpCase("health", http.MethodGet, base+"/health", nil, http.StatusOK),
		httpCase("city catalog", http.MethodGet, base+"/api/cities", nil, http.StatusOK),
		httpCase("states", http.MethodGet, base+"/api/locations/states", nil, http.StatusOK),
		httpCase("quote rejects zero weight", http.MethodPost, base+"/api/quote",
			map[string]any{"from": "Mumbai", "to": "Delhi", "weight": 0}, http.StatusBadRequest),
		httpCase("quote rejects same city", http.MethodPost, base+"/api/quote",
			map[string]any{"from": "Mumbai", "to": "Mumbai", "weight": 1}, http.StatusBadRequest),
		httpCase("quote unknown city", http.MethodPost, base+"/api/quote",
			map[string]any{"from": "Atlantis", "to": "Lemuria", "weight": 1}, http.StatusUnprocessableEntity),
		httpCase("volumetric weight", http.MethodPost, base+"/api/tools/volumetric-weight",
			map[string]any{"length": 50, "width": 40, "height": 25}, http.StatusOK),
		httpCase("track unknown waybill", http.MethodGet, base+"/api/track/NO-SUCH-WAYBILL", nil, http.StatusNotFound),
		httpCase("orders need login", http.MethodGet, base+"/api/me/orders", nil, http.StatusUnauthorized),
		{Name: "document store table", Run: documentsTable},
		{Name: "redis ping", Run: redisPing},
		{Name: "concurrent claim has one winner", Run: concurrentClaim},
		{
			Name: "quote load",
			Run: func(ctx context.Context, r *Runner) Result {
				return loadTest(ctx, r, base+"/api/quote", map[string]any{"from": "Mumbai", "to": "Delhi", "weight": 2})
			},
		},
	}
}

func httpCase(name, method, url string, body any, want int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			status, err := r.send(ctx, r.httpc, method, url, body)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			res := Result{Status: statusFail, Latency: time.Since(start), Note: fmt.Sprintf("status=%d", status)}
			if status == want {
				res.Status = statusPass
			}
			return res
		},
	}
}

func (r *Runner) send(ctx context.Context, c *http.Client, method, url string, body any) (int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, nil
}

func documentsTable(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: statusSkip, Note: "no dsn"}
	}
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	return Result{Status: statusPass, Note: fmt.Sprintf("documents=%d", n)}
}

func redisPing(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: statusSkip, Note: "no redis address"}
	}
	start := time.Now()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	return Result{Status: statusPass, Latency: time.Since(start)}
}

// concurrentClaim signs up one user per worker and has them all claim the
// same waybill at once. Exactly one claim may succeed.
func concurrentClaim(ctx context.Context, r *Runner) Result {
	if r.cfg.ClaimWaybill == "" {
		return Result{Status: statusSkip, Note: "no -claim-waybill"}
	}
	base := r.cfg.BaseURL
	run := time.Now().UnixNano()

	var wg sync.WaitGroup
	var won, conflicts, failed atomic.Int64
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			jar, _ := cookiejar.New(nil)
			c := &http.Client{Timeout: 10 * time.Second, Jar: jar}
			user := map[string]any{
				"username":  fmt.Sprintf("bench-%d-%d", run, i),
				"password":  "bench",
				"full_name": "Bench User",
				"address":   "Bench Street",
			}
			if s, err := r.send(ctx, c, http.MethodPost, base+"/api/accounts", user); err != nil || s != http.StatusCreated {
				failed.Add(1)
				return
			}
			if s, err := r.send(ctx, c, http.MethodPost, base+"/api/session", user); err != nil || s != http.StatusOK {
				failed.Add(1)
				return
			}
			s, err := r.send(ctx, c, http.MethodPost, base+"/api/me/claims", map[string]any{"waybill": r.cfg.ClaimWaybill})
			switch {
			case err != nil:
				failed.Add(1)
			case s == http.StatusCreated:
				won.Add(1)
			case s == http.StatusConflict:
				conflicts.Add(1)
			default:
				failed.Add(1)
			}
		}(i)
	}
	wg.Wait()

	note := fmt.Sprintf("success=%d conflict=%d failed=%d", won.Load(), conflicts.Load(), failed.Load())
	if won.Load() == 1 && failed.Load() == 0 {
		return Result{Status: statusPass, Note: note}
	}
	return Result{Status: statusFail, Note: note}
}

func loadTest(ctx context.Context, r *Runner, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				if _, err := r.send(ctx, r.httpc, http.MethodPost, url, payload); err != nil {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}
