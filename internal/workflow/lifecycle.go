package workflow

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Lifecycle holds the approval columns every request table carries.
type Lifecycle struct {
	Status     string `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	CreatedBy  int64  `gorm:"not null"`
	ApproverID *int64 `gorm:"index"`
	ApprovedAt *time.Time
	Remarks    string `gorm:"type:text"`
}

// RemarksSeparator joins remarks left at successive lifecycle steps.
const RemarksSeparator = "\n"

// AppendRemarks adds entry to the remarks already stored. Remarks are never
// overwritten once written.
func AppendRemarks(stored, entry string) string {
	entry = strings.TrimSpace(entry)
	switch {
	case entry == "":
		return stored
	case stored == "":
		return entry
	default:
		return stored + RemarksSeparator + entry
	}
}

// Apply copies a written patch onto the in-memory row. remarks is the entry
// added by this step.
func (l *Lifecycle) Apply(status string, approverID int64, approvedAt time.Time, remarks string) {
	l.Status = status
	if status == StatusApproved || status == StatusRejected {
		l.ApproverID = &approverID
		l.ApprovedAt = &approvedAt
	}
	l.Remarks = AppendRemarks(l.Remarks, remarks)
}

// FilterScope applies a ListFilter to a request query. Dates bound created_at.
func FilterScope(f ListFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.From != nil {
			db = db.Where("created_at >= ?", *f.From)
		}
		if f.To != nil {
			db = db.Where("created_at < ?", *f.To)
		}
		return db
	}
}

// PendingScope limits a query to PENDING rows.
func PendingScope(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", StatusPending)
}
