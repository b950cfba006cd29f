package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment links a student to a course. This core never mutates
// enrollments; they are loaded with the detail projection and removed with
// the owning course.
type Enrollment struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	UserID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Metadata datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Enrollment) TableName() string { return "enrollment" }
