package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hifood/hifood-server/internal/authz"
	"github.com/hifood/hifood-server/internal/catalog"
	"github.com/hifood/hifood-server/internal/config"
	"github.com/hifood/hifood-server/internal/events"
	"github.com/hifood/hifood-server/internal/handlers"
	"github.com/hifood/hifood-server/internal/identity"
	"github.com/hifood/hifood-server/internal/logging"
	"github.com/hifood/hifood-server/internal/metrics"
	mwauth "github.com/hifood/hifood-server/internal/middleware/auth"
	loggingmw "github.com/hifood/hifood-server/internal/middleware/logging"
	"github.com/hifood/hifood-server/internal/orders"
	"github.com/hifood/hifood-server/internal/session"
	"github.com/hifood/hifood-server/internal/store"
	"github.com/hifood/hifood-server/internal/store/jsonfile"
	"github.com/hifood/hifood-server/internal/store/sqlitestore"
	httpserver "github.com/hifood/hifood-server/internal/transport/http"
)

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == "sqlite" {
		return sqlitestore.Open(cfg.SQLitePath)
	}
	return jsonfile.New(cfg.DataDir)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaAddress)

	sessions := session.NewManager(st, cfg.SessionTTL)
	identitySvc := identity.NewService(st, sessions)
	catalogSvc := catalog.NewService(st)
	orderSvc := orders.NewService(st, cfg.OrderStatusStrict)

	guard := &mwauth.Guard{
		Sessions: sessions,
		Store:    st,
		Policy:   authz.Default(),
	}

	m := metrics.New()

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(m.Middleware())

	deps := httpserver.Deps{
		Guard: guard,
		AuthHandler: &handlers.AuthHandler{
			Identity: identitySvc,
			Sessions: sessions,
			Store:    st,
			Google:   &identity.GoogleVerifier{ClientID: cfg.GoogleClientID},
			Facebook: &identity.FacebookVerifier{},
			Producer: producer,
		},
		ProductHandler: &handlers.ProductHandler{Catalog: catalogSvc, Producer: producer},
		OrderHandler:   &handlers.OrderHandler{Orders: orderSvc, Producer: producer, Metrics: m},
		AdminHandler:   &handlers.AdminHandler{Store: st},
		MiscHandler:    &handlers.MiscHandler{QRDir: cfg.QRDir},
		Metrics:        m,
		PublicDir:      cfg.PublicDir,
		QRDir:          cfg.QRDir,
		ProductImgDir:  cfg.ProductImgDir,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("hi food server listening", "port", cfg.Port, "store", cfg.StoreDriver)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
