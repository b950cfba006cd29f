package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz and Exam are opaque related collections: loaded with the course
// detail projection, never mutated by this core.
type Quiz struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	Title    string         `gorm:"column:title" json:"title"`
	Payload  datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Quiz) TableName() string { return "quiz" }

type Exam struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	Title    string         `gorm:"column:title" json:"title"`
	Payload  datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Exam) TableName() string { return "exam" }
