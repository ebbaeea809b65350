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

	"github.com/prometheus/client_golang/prometheus"

	"photojay_admin/internal/config"
	"photojay_admin/internal/console"
	"photojay_admin/internal/filter"
	"photojay_admin/internal/gateway"
	"photojay_admin/internal/metrics"
	"photojay_admin/internal/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Console failed: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	// 1. Token: ACCESS_TOKEN wins, otherwise log in with the admin credentials
	var tokens session.TokenSource
	switch {
	case cfg.AccessToken != "":
		tokens = session.StaticToken(cfg.AccessToken)
	case cfg.AdminUserName != "" && cfg.AdminPassword != "":
		tokens = session.NewPasswordLogin(cfg.APIURL, cfg.AdminUserName, cfg.AdminPassword, httpClient)
	default:
		return errors.New("set ACCESS_TOKEN or ADMIN_USERNAME/ADMIN_PASSWORD")
	}

	token, err := tokens.Token(ctx)
	if err != nil {
		return err
	}
	claims, err := session.ParseClaims(token)
	if err != nil {
		return err
	}

	// 2. Metrics are only served when METRICS_ADDR is set
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metrics.SetupMetricsRoute(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Printf("Serving metrics on %s/metrics", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Metrics server failed: %v", err)
			}
		}()
		defer srv.Close()
	}

	client := gateway.NewClient(cfg.APIURL, tokens, gateway.Options{
		HTTPClient:        httpClient,
		RequestsPerSecond: cfg.GatewayRPS,
		Metrics:           collector,
	})

	// 3. Console
	c := console.New(console.Deps{
		Claims:        claims,
		Notifications: client,
		Moderation:    client,
		Filter:        filter.New(),
		Out:           os.Stdout,
	})
	defer c.Close()

	if err := c.Start(ctx); err != nil {
		log.Printf("[Console] Initial load incomplete: %v", err)
	}
	if err := c.Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
