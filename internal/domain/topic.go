package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Topic groups content items inside a course. Ordering among topics is
// insertion order; there is no explicit position column.
type Topic struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`

	Title string `gorm:"column:title;not null" json:"title"`

	Contents []*Content `gorm:"foreignKey:TopicID;references:ID" json:"contents,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Topic) TableName() string { return "topic" }
