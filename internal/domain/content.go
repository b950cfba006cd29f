package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContentTypeText         = "TEXT"
	ContentTypeLink         = "LINK"
	ContentTypeYoutubeVideo = "YOUTUBE_VIDEO"
)

// ValidContentType reports whether t is one of the fixed content types.
// The enumeration is closed; anything else is rejected at validation.
func ValidContentType(t string) bool {
	switch t {
	case ContentTypeText, ContentTypeLink, ContentTypeYoutubeVideo:
		return true
	default:
		return false
	}
}

// Content is the smallest unit of instructional material. Data is an opaque
// payload whose shape depends on Type (prose, URL, or video reference).
type Content struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID uuid.UUID `gorm:"type:uuid;not null;index" json:"topic_id"`
	Topic   *Topic    `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"topic,omitempty"`

	Type string `gorm:"column:type;not null" json:"type"`
	Data string `gorm:"column:data;type:text;not null" json:"data"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Content) TableName() string { return "content" }
