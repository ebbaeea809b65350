package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"photojay_admin/internal/model"
)

type listingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) ListingRepository {
	return &listingRepository{db: db}
}

// listingRow is a listing joined with its owner's user name.
type listingRow struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	Status        string    `db:"status"`
	IsVIP         bool      `db:"is_vip"`
	CreatedAt     time.Time `db:"created_at"`
	OwnerUserName string    `db:"owner_user_name"`
}

func (row listingRow) toModel() model.Listing {
	return model.Listing{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Status:      model.ListingStatus(row.Status),
		IsVIP:       row.IsVIP,
		Owner:       model.Owner{ID: row.UserID, UserName: row.OwnerUserName},
		CreatedAt:   row.CreatedAt,
	}
}

const listingSelect = `
	SELECT l.id, l.user_id, l.title, l.description, l.status, l.is_vip, l.created_at,
	       u.user_name AS owner_user_name
	FROM listings l
	JOIN users u ON u.id = l.user_id
`

// Create inserts a listing for listing.Owner.ID.
func (r *listingRepository) Create(ctx context.Context, l *model.Listing) error {
	if l.Status == "" {
		l.Status = model.ListingStatusPending
	}
	var createdAt *time.Time
	if !l.CreatedAt.IsZero() {
		createdAt = &l.CreatedAt
	}
	query := `
		INSERT INTO listings (user_id, title, description, status, is_vip, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6::timestamptz, NOW()))
		RETURNING id, created_at
	`
	row := r.db.QueryRowxContext(ctx, query, l.Owner.ID, l.Title, l.Description, l.Status, l.IsVIP, createdAt)
	if err := row.Scan(&l.ID, &l.CreatedAt); err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// GetByID retrieves a single listing with its owner.
func (r *listingRepository) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	var row listingRow
	err := r.db.GetContext(ctx, &row, listingSelect+` WHERE l.id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrListingNotFound
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	l := row.toModel()
	return &l, nil
}

// List returns listings newest first, optionally filtered by status.
func (r *listingRepository) List(ctx context.Context, status *model.ListingStatus) ([]model.Listing, error) {
	var rows []listingRow
	var err error
	if status == nil {
		err = r.db.SelectContext(ctx, &rows, listingSelect+` ORDER BY l.created_at DESC, l.id DESC`)
	} else {
		err = r.db.SelectContext(ctx, &rows, listingSelect+` WHERE l.status = $1 ORDER BY l.created_at DESC, l.id DESC`, *status)
	}
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}

	listings := make([]model.Listing, len(rows))
	for i, row := range rows {
		listings[i] = row.toModel()
	}
	return listings, nil
}

// UpdateStatus sets the moderation status of a listing.
func (r *listingRepository) UpdateStatus(ctx context.Context, id int64, status model.ListingStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE listings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update listing status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update listing status: %w", err)
	}
	if affected == 0 {
		return model.ErrListingNotFound
	}
	return nil
}

// ToggleVIP flips the VIP flag in one statement and returns the new value.
func (r *listingRepository) ToggleVIP(ctx context.Context, id int64) (bool, error) {
	var isVIP bool
	err := r.db.GetContext(ctx, &isVIP, `UPDATE listings SET is_vip = NOT is_vip WHERE id = $1 RETURNING is_vip`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, model.ErrListingNotFound
		}
		return false, fmt.Errorf("toggle listing vip: %w", err)
	}
	return isVIP, nil
}

// CountStats counts listings by status plus the VIP ones.
func (r *listingRepository) CountStats(ctx context.Context) (model.AdminStats, error) {
	query := `
		SELECT
			COUNT(*)                                   AS total,
			COUNT(*) FILTER (WHERE status = 'PENDING')  AS pending,
			COUNT(*) FILTER (WHERE status = 'APPROVED') AS approved,
			COUNT(*) FILTER (WHERE status = 'REJECTED') AS rejected,
			COUNT(*) FILTER (WHERE is_vip)              AS vip
		FROM listings
	`
	var row struct {
		Total    int `db:"total"`
		Pending  int `db:"pending"`
		Approved int `db:"approved"`
		Rejected int `db:"rejected"`
		VIP      int `db:"vip"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return model.AdminStats{}, fmt.Errorf("count listing stats: %w", err)
	}
	return model.AdminStats{
		TotalProducts:    row.Total,
		PendingProducts:  row.Pending,
		ApprovedProducts: row.Approved,
		RejectedProducts: row.Rejected,
		VIPProducts:      row.VIP,
	}, nil
}
