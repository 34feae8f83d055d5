package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/efi-capital/portfolio-tracker/internal/activity"
	"github.com/efi-capital/portfolio-tracker/internal/config"
	"github.com/efi-capital/portfolio-tracker/internal/logger"
	"github.com/efi-capital/portfolio-tracker/internal/metrics"
	"github.com/efi-capital/portfolio-tracker/internal/postgres"
	"github.com/efi-capital/portfolio-tracker/internal/quotes"
	"github.com/efi-capital/portfolio-tracker/internal/refresh"
	"github.com/efi-capital/portfolio-tracker/internal/server"
	"github.com/efi-capital/portfolio-tracker/internal/store"
	"github.com/efi-capital/portfolio-tracker/internal/web"
)

const _cfgFilePath = "./configs/config.yaml"

func main() {
	zapLogger, loggerSync, err := logger.NewZapLogger(logger.Debug)
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	if err := godotenv.Load(); err != nil {
		zapLogger.Warnf("can't detect .env file")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig(_cfgFilePath)
	if err != nil {
		zapLogger.Fatalf("%s: can't load cfg", err)
	}

	db, err := postgres.NewDB(postgres.NewConfigFromEnv().Setup())
	if err != nil {
		zapLogger.Fatalf("%s: can't connect to postgres", err)
	}
	defer db.Close()

	st := store.NewStore(db, zapLogger)
	if err := st.InitSchema(ctx); err != nil {
		zapLogger.Fatalf("%s: can't init schema", err)
	}

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)
	equityService := quotes.NewEquityService(cfg.Quotes, m, zapLogger)
	chainService := quotes.NewChainService(cfg.Quotes, m, zapLogger)
	refresher := refresh.NewRefresher(st, equityService, chainService, m, zapLogger)

	formatter, err := activity.NewFormatter(cfg.Activity.Timezone)
	if err != nil {
		zapLogger.Fatalf("%s: can't init activity formatter", err)
	}

	sessions := web.NewSessionManager()
	go sessions.Run(ctx)

	handlers := web.NewHandlers(st, equityService, chainService, refresher, sessions, formatter, cfg, zapLogger)
	router := web.NewRouter(handlers)

	zapLogger.Infof("starting portfolio tracker on :%s", cfg.Server.Port)
	s := server.NewHTTPServer(ctx, cfg.Server, router)
	if err := s.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zapLogger.Fatalf("%s: server stopped", err)
	}
}
