// README: Entry point; loads config, wires services, starts the HTTP server and reloads reference data on SIGHUP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"sirparcel/internal/ai"
	"sirparcel/internal/config"
	httptransport "sirparcel/internal/http"
	"sirparcel/internal/http/middleware"
	"sirparcel/internal/infra"
	"sirparcel/internal/logging"
	"sirparcel/internal/maps"
	"sirparcel/internal/modules/account"
	"sirparcel/internal/modules/assistant"
	"sirparcel/internal/modules/location"
	"sirparcel/internal/modules/order"
	"sirparcel/internal/modules/pickup"
	"sirparcel/internal/modules/pricing"
	"sirparcel/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Sugar.Fatalf("config: %v", err)
	}
	if err := logging.Initialize(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: "stderr"}); err != nil {
		logging.Sugar.Fatalf("logging: %v", err)
	}
	defer logging.Sync()
	log := logging.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := infra.OpenBackend(ctx, cfg.Store.Backend, cfg.Store.DataDir, cfg.DB.DSN)
	if err != nil {
		log.Fatal("open document store", zap.Error(err))
	}
	defer closeBackend()
	docs := infra.NewDocuments(backend, logging.Named("docstore"))

	locationStore := location.NewStore(docs)
	locationSvc := location.NewService(locationStore)

	pricingSvc := pricing.NewService(pricing.NewStore(docs, locationStore), logging.Named("pricing"))
	if err := pricingSvc.Reload(ctx); err != nil {
		log.Fatal("load reference data", zap.Error(err))
	}

	orderStore := order.NewStore(docs)
	orderSvc := order.NewService(orderStore, logging.Named("order"))
	accountSvc := account.NewService(docs, orderStore, logging.Named("account"))
	pickupSvc := pickup.NewService(logging.Named("pickup"))

	var routes service.TransitEstimator
	if cfg.Maps.APIKey != "" {
		rs, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatal("maps client", zap.Error(err))
		}
		routes = rs
	}
	planner := service.NewQuotePlanner(pricingSvc, routes, logging.Named("quote"))

	var chatStore assistant.Store = assistant.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		rdb := infra.NewRedis(cfg.Redis.Addr)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		chatStore = assistant.NewRedisStore(rdb)
	}

	var provider ai.Provider
	switch cfg.AI.Provider {
	case config.AIGemini:
		gp, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model)
		if err != nil {
			log.Fatal("gemini", zap.Error(err))
		}
		defer gp.Close()
		provider = gp
	case config.AIOpenAI:
		provider = ai.NewOpenAIProvider(cfg.AI.OpenAIKey, cfg.AI.Model)
	default:
		log.Warn("no assistant provider configured; chat replies will apologise")
	}
	assistantSvc := assistant.NewService(chatStore, provider, orderSvc, assistant.Config{
		Timeout:   cfg.AI.Timeout,
		Allowance: cfg.AI.MonthlyTokens,
	}, logging.Named("assistant"))

	go reloadOnHangup(ctx, pricingSvc, log)

	server := httptransport.NewServer(cfg.HTTP.Addr, httptransport.ServerDeps{
		Pricing:   pricingSvc,
		Planner:   planner,
		Location:  locationSvc,
		Order:     orderSvc,
		Account:   accountSvc,
		Pickup:    pickupSvc,
		Assistant: assistantSvc,
		Sessions:  middleware.NewCookieStore(cfg.Session.Secret, cfg.Session.Secure, cfg.Session.MaxAge),
		Log:       logging.Named("http"),
	})
	if err := server.Run(ctx); err != nil {
		log.Fatal("http server", zap.Error(err))
	}
}

// reloadOnHangup swaps in fresh reference data on SIGHUP. A failed reload
// keeps serving the previous snapshot.
func reloadOnHangup(ctx context.Context, svc *pricing.Service, log *zap.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			log.Info("SIGHUP received, reloading reference data")
			_ = svc.Reload(ctx)
		}
	}
}
