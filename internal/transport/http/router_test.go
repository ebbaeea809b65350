package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"photojay_admin/internal/config"
	"photojay_admin/internal/model"
	"photojay_admin/internal/service"
)

// ============================================================================
// Test Setup
// ============================================================================

const testSecret = "router-test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{JWTSecret: testSecret, AccessTokenMaxAge: 900}
	app := NewApp(cfg, MemoryRepositories(), nil)
	if err := app.Seed(context.Background(), service.DemoSeed{
		AdminUserName: "admin",
		AdminPassword: "admin-pw",
		UserPassword:  "user-pw",
		Listings:      8,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	return srv
}

// ============================================================================
// HTTP Client Helpers
// ============================================================================

type apiClient struct {
	t       *testing.T
	baseURL string
	token   string
}

func (c *apiClient) do(method, path string, body interface{}) (*stdhttp.Response, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := stdhttp.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := stdhttp.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func login(t *testing.T, baseURL, userName, password string) *apiClient {
	t.Helper()
	c := &apiClient{t: t, baseURL: baseURL}
	resp, body := c.do("POST", "/api/auth/login", model.LoginRequest{UserName: userName, Password: password})
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("login %s: status %d body=%s", userName, resp.StatusCode, body)
	}
	var env model.Envelope[model.LoginResponse]
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	c.token = env.Data.Token
	return c
}

func decodeData[T any](t *testing.T, body []byte) T {
	t.Helper()
	var env model.Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return env.Data
}

// ============================================================================
// Tests
// ============================================================================

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	c := &apiClient{t: t, baseURL: srv.URL}

	resp, _ := c.do("GET", "/health", nil)

	if resp.StatusCode != stdhttp.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID on the response")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t)
	c := &apiClient{t: t, baseURL: srv.URL}

	resp, _ := c.do("POST", "/api/auth/login", model.LoginRequest{UserName: "admin", Password: "nope"})

	if resp.StatusCode != stdhttp.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		client *apiClient
		want   int
	}{
		{"anonymous", &apiClient{t: t, baseURL: srv.URL}, stdhttp.StatusUnauthorized},
		{"garbage token", &apiClient{t: t, baseURL: srv.URL, token: "not-a-jwt"}, stdhttp.StatusUnauthorized},
		{"plain user", login(t, srv.URL, "jay", "user-pw"), stdhttp.StatusForbidden},
		{"admin", login(t, srv.URL, "admin", "admin-pw"), stdhttp.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := tt.client.do("GET", "/api/admin/stats", nil)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d (body=%s)", resp.StatusCode, tt.want, body)
			}
		})
	}
}

func TestAdmin_ModerationFlow(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv.URL, "admin", "admin-pw")

	// 8 seeded listings cycle PENDING, PENDING, APPROVED, REJECTED
	_, body := admin.do("GET", "/api/admin/stats", nil)
	stats := decodeData[model.AdminStats](t, body)
	if stats.TotalProducts != 8 || stats.PendingProducts != 4 || stats.TotalUsers != 3 {
		t.Fatalf("stats = %+v", stats)
	}

	_, body = admin.do("GET", "/api/admin/products/pending", nil)
	pending := decodeData[[]model.Listing](t, body)
	if len(pending) != 4 {
		t.Fatalf("pending = %d, want 4", len(pending))
	}
	target := pending[0]

	// Rejection without a reason is refused
	resp, body := admin.do("PUT", fmt.Sprintf("/api/admin/products/%d/moderate", target.ID),
		model.ModerateRequest{Status: model.ListingStatusRejected, Reason: "  "})
	if resp.StatusCode != stdhttp.StatusBadRequest {
		t.Fatalf("blank reason: status = %d, want 400", resp.StatusCode)
	}
	var apiErr struct {
		Error struct{ Code string } `json:"error"`
	}
	_ = json.Unmarshal(body, &apiErr)
	if apiErr.Error.Code != model.CodeReasonMissing {
		t.Errorf("error code = %q, want %q", apiErr.Error.Code, model.CodeReasonMissing)
	}

	resp, _ = admin.do("PUT", fmt.Sprintf("/api/admin/products/%d/moderate", target.ID),
		model.ModerateRequest{Status: model.ListingStatusRejected, Reason: "blurry"})
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("reject: status = %d", resp.StatusCode)
	}

	_, body = admin.do("GET", "/api/admin/products/pending", nil)
	if got := decodeData[[]model.Listing](t, body); len(got) != 3 {
		t.Errorf("pending after reject = %d, want 3", len(got))
	}

	resp, body = admin.do("PUT", fmt.Sprintf("/api/admin/products/%d/toggle-vip", target.ID), nil)
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("toggle vip: status = %d", resp.StatusCode)
	}
	if got := decodeData[model.Listing](t, body); got.IsVIP == target.IsVIP {
		t.Error("VIP flag did not flip")
	}

	resp, _ = admin.do("PUT", "/api/admin/products/9999/moderate", model.ModerateRequest{Status: model.ListingStatusApproved})
	if resp.StatusCode != stdhttp.StatusNotFound {
		t.Errorf("unknown listing: status = %d, want 404", resp.StatusCode)
	}

	// The owner learns about the decision
	owner := login(t, srv.URL, target.Owner.UserName, "user-pw")
	_, body = owner.do("GET", "/api/notifications", nil)
	var notifs []model.Notification
	if err := json.Unmarshal(body, &notifs); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	if len(notifs) == 0 || notifs[0].Kind != model.NotificationKindGeneral {
		t.Errorf("owner notifications = %+v, want a GENERAL notice first", notifs)
	}
}

func TestNotifications_ReadFlow(t *testing.T) {
	srv := newTestServer(t)
	jay := login(t, srv.URL, "jay", "user-pw")

	unread := func() int {
		t.Helper()
		_, body := jay.do("GET", "/api/notifications/unread-count", nil)
		var n int
		if err := json.Unmarshal(body, &n); err != nil {
			t.Fatalf("decode unread count %s: %v", body, err)
		}
		return n
	}

	if got := unread(); got != 2 {
		t.Fatalf("unread = %d, want 2 seeded", got)
	}

	_, body := jay.do("GET", "/api/notifications", nil)
	var notifs []model.Notification
	if err := json.Unmarshal(body, &notifs); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp, _ := jay.do("PUT", fmt.Sprintf("/api/notifications/%d/read", notifs[0].ID), nil)
	if resp.StatusCode != stdhttp.StatusNoContent {
		t.Fatalf("mark read: status = %d, want 204", resp.StatusCode)
	}
	if got := unread(); got != 1 {
		t.Errorf("unread = %d, want 1", got)
	}

	resp, _ = jay.do("PUT", "/api/notifications/abc/read", nil)
	if resp.StatusCode != stdhttp.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", resp.StatusCode)
	}

	jay.do("PUT", "/api/notifications/mark-all-read", nil)
	if got := unread(); got != 0 {
		t.Errorf("unread = %d, want 0", got)
	}
}
