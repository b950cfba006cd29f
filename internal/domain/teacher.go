package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Teacher is the authoring profile a User opts into. It is the sole
// authorization principal for course mutation: every ownership walk ends
// here.
type Teacher struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Courses []*Course `gorm:"foreignKey:TeacherID;references:ID" json:"courses,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Teacher) TableName() string { return "teacher" }
