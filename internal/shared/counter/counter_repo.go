package counter

import (
	"context"
	"database/sql"

	"go-workforce/internal/shared/connection"

	"gorm.io/gorm"
)

// Sequence names, one per request table. Ids only need to be unique per table.
const (
	LeaveRequest    = "leave_request"
	PaymentRequest  = "payment_request"
	MedicalClaim    = "medical_claim"
	MaterialRequest = "material_request"
)

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	NextValue(ctx context.Context, name string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// NextValue increments and returns the named sequence in one statement, so
// concurrent submitters never observe the same value.
func (r *repository) NextValue(ctx context.Context, name string) (int64, error) {
	var nextValue int64

	err := connection.Session(ctx, r.db, r.tx).Raw(`
		INSERT INTO sequence_counters (name, last_value, updated_at)
		VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE
		SET last_value = sequence_counters.last_value + 1, updated_at = CURRENT_TIMESTAMP
		RETURNING last_value
	`, name).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}
