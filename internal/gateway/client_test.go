package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"photojay_admin/internal/model"
	"photojay_admin/internal/session"
)

// recordingMetrics captures what the client reports.
type recordingMetrics struct {
	mu       sync.Mutex
	requests []string
	failures []string
	dropped  map[string]int
}

func (r *recordingMetrics) RecordRequest(op string, statusCode int, latency time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, op)
}

func (r *recordingMetrics) RecordTransportFailure(op string, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, op+" "+reason)
}

func (r *recordingMetrics) RecordDroppedRecords(op string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dropped == nil {
		r.dropped = make(map[string]int)
	}
	r.dropped[op] += count
}

type failingTokens struct{ err error }

func (f failingTokens) Token(ctx context.Context) (string, error) { return "", f.err }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordingMetrics, *bytes.Buffer) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	rec := &recordingMetrics{}
	var logs bytes.Buffer
	c := NewClient(server.URL, session.StaticToken("test-token"), Options{
		HTTPClient: server.Client(),
		Metrics:    rec,
		Logger:     log.New(&logs, "", 0),
	})
	return c, rec, &logs
}

func TestClient_SendsAuthAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID, gotPath string
	c, rec, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get(RequestIDHeader)
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":{"totalProducts":23,"pendingProducts":4,"approvedProducts":15,"rejectedProducts":4,"vipProducts":2,"totalUsers":9}}`))
	})

	stats, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer test-token")
	}
	if _, err := uuid.Parse(gotRequestID); err != nil {
		t.Errorf("X-Request-ID = %q is not a uuid: %v", gotRequestID, err)
	}
	if gotPath != "/api/admin/stats" {
		t.Errorf("path = %q, want /api/admin/stats", gotPath)
	}
	want := model.AdminStats{TotalProducts: 23, PendingProducts: 4, ApprovedProducts: 15, RejectedProducts: 4, VIPProducts: 2, TotalUsers: 9}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
	if len(rec.requests) != 1 || rec.requests[0] != opStats {
		t.Errorf("recorded requests = %v, want [%s]", rec.requests, opStats)
	}
}

func TestClient_PendingListings_DropsInvalidRecords(t *testing.T) {
	c, rec, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"id":1,"title":"Camera","status":"PENDING","isVip":false,"user":{"userName":"alice"},"createdAt":"2024-03-01T10:00:00Z"},
			{"id":2,"title":"Lens","status":"pending","isVip":true,"user":{"userName":"bob"},"createdAt":"2024-03-02T11:30:00"},
			{"id":3,"title":"","status":"PENDING","user":{"userName":"carol"},"createdAt":"2024-03-03T00:00:00Z"},
			{"id":4,"title":"Tripod","status":"ARCHIVED","user":{"userName":"dan"},"createdAt":"2024-03-03T00:00:00Z"},
			{"id":5,"title":"Flash","status":"PENDING","createdAt":"2024-03-03T00:00:00Z"},
			{"id":1,"title":"Camera again","status":"PENDING","user":{"userName":"alice"},"createdAt":"2024-03-04T00:00:00Z"},
			{"id":"six","title":"Bag"},
			{"id":7,"title":"Strap","status":"PENDING","user":{"userName":"erin"},"createdAt":"yesterday"}
		]}`))
	})

	listings, err := c.PendingListings(context.Background())
	if err != nil {
		t.Fatalf("PendingListings: %v", err)
	}

	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2: %+v", len(listings), listings)
	}
	if listings[0].ID != 1 || listings[0].Title != "Camera" {
		t.Errorf("first listing = %+v, want id 1 Camera (first copy wins)", listings[0])
	}
	if listings[1].Status != model.ListingStatusPending || !listings[1].IsVIP {
		t.Errorf("second listing = %+v, want normalized PENDING and VIP", listings[1])
	}
	wantTime := time.Date(2024, 3, 2, 11, 30, 0, 0, time.UTC)
	if !listings[1].CreatedAt.Equal(wantTime) {
		t.Errorf("zone-less createdAt = %v, want %v", listings[1].CreatedAt, wantTime)
	}
	if rec.dropped[opPendingListings] != 6 {
		t.Errorf("dropped = %d, want 6", rec.dropped[opPendingListings])
	}
	if !strings.Contains(logs.String(), "duplicate id 1") {
		t.Errorf("logs missing duplicate warning:\n%s", logs.String())
	}
}

func TestClient_Moderate_SendsDecision(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody model.ModerateRequest
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.Write([]byte(`{"data":{"id":7}}`))
	})

	err := c.Moderate(context.Background(), 7, model.ModerateRequest{Status: model.ListingStatusRejected, Reason: "spam"})
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}

	if gotMethod != http.MethodPut || gotPath != "/api/admin/products/7/moderate" {
		t.Errorf("request = %s %s, want PUT /api/admin/products/7/moderate", gotMethod, gotPath)
	}
	if gotBody.Status != model.ListingStatusRejected || gotBody.Reason != "spam" {
		t.Errorf("body = %+v, want {REJECTED spam}", gotBody)
	}
}

func TestClient_ToggleVIP_Path(t *testing.T) {
	var gotPath string
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	if err := c.ToggleVIP(context.Background(), 12); err != nil {
		t.Fatalf("ToggleVIP: %v", err)
	}
	if gotPath != "/api/admin/products/12/toggle-vip" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestClient_ErrorStatus_ReturnsTransportError(t *testing.T) {
	c, _, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":"FORBIDDEN","message":"Admin access required"}}`))
	})

	_, err := c.AllListings(context.Background())

	var te *model.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *model.TransportError", err)
	}
	if te.StatusCode != http.StatusForbidden || te.Code != "FORBIDDEN" || te.Message != "Admin access required" {
		t.Errorf("TransportError = %+v", te)
	}
	if te.Op != opAllListings {
		t.Errorf("Op = %q, want %q", te.Op, opAllListings)
	}
	if !strings.Contains(logs.String(), "[Gateway]") {
		t.Errorf("failure was not logged")
	}
}

func TestClient_PlainErrorBody(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	err := c.MarkAllNotificationsRead(context.Background())

	var te *model.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *model.TransportError", err)
	}
	if te.Message != "upstream down" {
		t.Errorf("Message = %q, want %q", te.Message, "upstream down")
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	rec := &recordingMetrics{}
	c := NewClient(url, session.StaticToken("t"), Options{Metrics: rec, Logger: log.New(io.Discard, "", 0)})

	_, err := c.Notifications(context.Background())
	if !model.IsTransportError(err) {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if len(rec.failures) != 1 || rec.failures[0] != opNotifications+" network" {
		t.Errorf("failures = %v", rec.failures)
	}
}

func TestClient_UndecodableBody(t *testing.T) {
	c, rec, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	})

	_, err := c.Notifications(context.Background())
	if !model.IsTransportError(err) {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if len(rec.failures) != 1 || rec.failures[0] != opNotifications+" decode" {
		t.Errorf("failures = %v", rec.failures)
	}
}

func TestClient_TokenUnavailable_NoRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := NewClient(server.URL, failingTokens{err: session.ErrNoToken}, Options{Logger: log.New(io.Discard, "", 0)})

	err := c.ToggleVIP(context.Background(), 1)
	if !errors.Is(err, session.ErrNoToken) {
		t.Errorf("err = %v, want ErrNoToken", err)
	}
	if called {
		t.Error("request was sent without a token")
	}
}

func TestClient_Notifications(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":10,"userId":3,"type":"GENERAL","message":"Your listing was approved","isRead":false,"createdAt":"2024-05-01T08:00:00Z"},
			{"id":11,"userId":3,"type":"REPUBLISH","message":"Republish reminder","isRead":true,"createdAt":"2024-05-02T08:00:00.123Z"},
			{"id":12,"userId":3,"type":"PROMO","message":"?","isRead":false,"createdAt":"2024-05-02T08:00:00Z"}
		]`))
	})

	got, err := c.Notifications(context.Background())
	if err != nil {
		t.Fatalf("Notifications: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}
	if got[0].Kind != model.NotificationKindGeneral || got[1].Kind != model.NotificationKindRepublish {
		t.Errorf("kinds = %s, %s", got[0].Kind, got[1].Kind)
	}
	if model.CountUnread(got) != 1 {
		t.Errorf("unread = %d, want 1", model.CountUnread(got))
	}
}

func TestClient_MarkNotificationRead_Path(t *testing.T) {
	var gotMethod, gotPath string
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
	})

	if err := c.MarkNotificationRead(context.Background(), 42); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/notifications/42/read" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestClient_UnreadNotificationCount(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{"bare integer", `3`, 3, false},
		{"zero", `0`, 0, false},
		{"negative", `-1`, 0, true},
		{"object", `{"count":3}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			got, err := c.UnreadNotificationCount(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"2024-03-01T10:00:00Z", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), false},
		{"2024-03-01T12:00:00+02:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), false},
		{"2024-03-01T10:00:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), false},
		{"2024-03-01T10:00:00.250", time.Date(2024, 3, 1, 10, 0, 0, 250_000_000, time.UTC), false},
		{"2024-03-01 10:00:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), false},
		{"", time.Time{}, true},
		{"01/03/2024", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseTimestamp(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
