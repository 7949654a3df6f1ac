package employee

import "time"

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// ProjectRef is the denormalized copy of the assigned project stored on the
// employee row.
type ProjectRef struct {
	ID   *int64 `gorm:"column:id;index"`
	Name string `gorm:"column:name;type:varchar(150)"`
	Code string `gorm:"column:code;type:varchar(50)"`
}

type Employee struct {
	ID        int64  `gorm:"primaryKey"`
	CompanyID int64  `gorm:"not null;index"`
	UserID    *int64 `gorm:"uniqueIndex"`
	FullName  string `gorm:"type:varchar(150);not null"`
	Phone     string `gorm:"type:varchar(30)"`
	Status    string `gorm:"type:varchar(20);not null;default:'ACTIVE'"`

	CurrentProject ProjectRef `gorm:"embedded;embeddedPrefix:current_project_"`
	// Legacy flat assignment column. Older rows only carry this one.
	CurrentProjectID *int64 `gorm:"column:legacy_project_id;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string { return "employees" }

// ProjectIDOf returns the employee's current project. The embedded reference
// wins over the legacy column; nil means unassigned.
func ProjectIDOf(e Employee) *int64 {
	if e.CurrentProject.ID != nil && *e.CurrentProject.ID != 0 {
		return e.CurrentProject.ID
	}
	if e.CurrentProjectID != nil && *e.CurrentProjectID != 0 {
		return e.CurrentProjectID
	}
	return nil
}

func (e Employee) IsActive() bool { return e.Status == StatusActive }
