package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"photojay_admin/internal/model"
)

// Layouts accepted for createdAt. Values without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("createdAt is empty")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("createdAt %q is not a timestamp", raw)
}

// listingRecord is one listing as it appears on the wire.
type listingRecord struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	IsVIP       bool   `json:"isVip"`
	User        *struct {
		ID       int64  `json:"id"`
		UserName string `json:"userName"`
	} `json:"user"`
	CreatedAt string `json:"createdAt"`
}

func (r listingRecord) toModel() (model.Listing, error) {
	if r.ID <= 0 {
		return model.Listing{}, fmt.Errorf("id %d is not positive", r.ID)
	}
	if strings.TrimSpace(r.Title) == "" {
		return model.Listing{}, errors.New("title is empty")
	}
	if r.User == nil || strings.TrimSpace(r.User.UserName) == "" {
		return model.Listing{}, errors.New("owner userName is missing")
	}
	status, ok := model.ParseListingStatus(r.Status)
	if !ok {
		return model.Listing{}, fmt.Errorf("status %q is unknown", r.Status)
	}
	createdAt, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return model.Listing{}, err
	}

	return model.Listing{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      status,
		IsVIP:       r.IsVIP,
		Owner:       model.Owner{ID: r.User.ID, UserName: r.User.UserName},
		CreatedAt:   createdAt,
	}, nil
}

// notificationRecord is one notification as it appears on the wire.
type notificationRecord struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

func (r notificationRecord) toModel() (model.Notification, error) {
	if r.ID <= 0 {
		return model.Notification{}, fmt.Errorf("id %d is not positive", r.ID)
	}
	kind, ok := model.ParseNotificationKind(r.Type)
	if !ok {
		return model.Notification{}, fmt.Errorf("type %q is unknown", r.Type)
	}
	createdAt, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return model.Notification{}, err
	}

	return model.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		Kind:      kind,
		Message:   r.Message,
		IsRead:    r.IsRead,
		CreatedAt: createdAt,
	}, nil
}

// convertRecords decodes each raw record on its own so one malformed entry
// cannot sink the whole collection. Invalid records and repeated ids are dropped.
func convertRecords[R any, M any](raws []json.RawMessage, convert func(R) (M, error), idOf func(M) int64) ([]M, []error) {
	out := make([]M, 0, len(raws))
	seen := make(map[int64]bool, len(raws))
	var problems []error

	for i, raw := range raws {
		var rec R
		if err := json.Unmarshal(raw, &rec); err != nil {
			problems = append(problems, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		m, err := convert(rec)
		if err != nil {
			problems = append(problems, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		id := idOf(m)
		if seen[id] {
			problems = append(problems, fmt.Errorf("record %d: duplicate id %d", i, id))
			continue
		}
		seen[id] = true
		out = append(out, m)
	}

	return out, problems
}

func (c *Client) reportDropped(op string, problems []error) {
	if len(problems) == 0 {
		return
	}
	c.metrics.RecordDroppedRecords(op, len(problems))
	for _, p := range problems {
		c.logger.Printf("[Gateway] %s dropped invalid record: %v", op, p)
	}
}
