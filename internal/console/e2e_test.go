package console_test

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"photojay_admin/internal/config"
	"photojay_admin/internal/console"
	"photojay_admin/internal/filter"
	"photojay_admin/internal/gateway"
	"photojay_admin/internal/metrics"
	"photojay_admin/internal/model"
	"photojay_admin/internal/service"
	"photojay_admin/internal/session"
	apihttp "photojay_admin/internal/transport/http"
)

// TestConsole_AgainstStubAPI drives the console through the real gateway
// client against the in-memory stub API.
func TestConsole_AgainstStubAPI(t *testing.T) {
	ctx := context.Background()

	app := apihttp.NewApp(&config.Config{JWTSecret: "e2e-secret", AccessTokenMaxAge: 900}, apihttp.MemoryRepositories(), nil)
	if err := app.Seed(ctx, service.DemoSeed{
		AdminUserName: "admin",
		AdminPassword: "admin-pw",
		UserPassword:  "user-pw",
		Listings:      12,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	tokens := session.NewPasswordLogin(srv.URL, "admin", "admin-pw", srv.Client())
	token, err := tokens.Token(ctx)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := session.ParseClaims(token)
	if err != nil {
		t.Fatalf("parse claims: %v", err)
	}
	if !claims.IsAdmin() {
		t.Fatalf("claims = %+v, want admin", claims)
	}

	reg := prometheus.NewRegistry()
	client := gateway.NewClient(srv.URL, tokens, gateway.Options{
		HTTPClient: srv.Client(),
		Metrics:    metrics.NewCollector(reg),
		Logger:     log.New(io.Discard, "", 0),
	})

	out := &bytes.Buffer{}
	c := console.New(console.Deps{
		Claims:        claims,
		Notifications: client,
		Moderation:    client,
		Filter:        filter.New(),
		Out:           out,
		Logger:        log.New(io.Discard, "", 0),
	})
	defer c.Close()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// 12 seeded listings cycle PENDING, PENDING, APPROVED, REJECTED
	if !strings.Contains(out.String(), "pending listings, sorted by createdAt desc, page 1/1 (6 total)") {
		t.Fatalf("unexpected start screen:\n%s", out.String())
	}

	pending, err := client.PendingListings(ctx)
	if err != nil {
		t.Fatalf("PendingListings: %v", err)
	}
	first, second := pending[0].ID, pending[1].ID

	for _, line := range []string{
		"approve " + strconv.FormatInt(first, 10),
		"reject " + strconv.FormatInt(second, 10),
		"reason wrong category",
		"confirm",
		"stats",
	} {
		if err := c.Execute(ctx, line); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}

	stats, err := client.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.PendingProducts != 4 || stats.ApprovedProducts != 4 || stats.RejectedProducts != 4 {
		t.Errorf("stats = %+v, want 4/4/4", stats)
	}

	all, err := client.AllListings(ctx)
	if err != nil {
		t.Fatalf("AllListings: %v", err)
	}
	for _, l := range all {
		if l.ID == second && l.Status != model.ListingStatusRejected {
			t.Errorf("listing %d status = %s, want REJECTED", second, l.Status)
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected gateway metrics to be recorded")
	}
}
