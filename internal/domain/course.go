package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID uuid.UUID  `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Teacher   *Teacher   `gorm:"constraint:OnDelete:CASCADE;foreignKey:TeacherID;references:ID" json:"teacher,omitempty"`
	SubjectID *uuid.UUID `gorm:"type:uuid;index" json:"subject_id,omitempty"`
	Subject   *Subject   `gorm:"constraint:OnDelete:SET NULL;foreignKey:SubjectID;references:ID" json:"subject,omitempty"`

	Title       string `gorm:"column:title;not null" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`
	IsPublic    bool   `gorm:"column:is_public;not null" json:"is_public"`

	// Uploaded image re-encoded base64 into a text column. No blob store,
	// no external object reference.
	Image     string `gorm:"column:image;type:text" json:"image,omitempty"`
	ImageType string `gorm:"column:image_type" json:"image_type,omitempty"`

	Topics      []*Topic      `gorm:"foreignKey:CourseID;references:ID" json:"topics,omitempty"`
	Enrollments []*Enrollment `gorm:"foreignKey:CourseID;references:ID" json:"enrollments,omitempty"`
	Quizzes     []*Quiz       `gorm:"foreignKey:CourseID;references:ID" json:"quizzes,omitempty"`
	Exams       []*Exam       `gorm:"foreignKey:CourseID;references:ID" json:"exams,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }
