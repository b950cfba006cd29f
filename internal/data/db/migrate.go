package db

import (
	"fmt"

	types "github.com/courseloop/courseloop-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity + auth
		&types.User{},
		&types.UserToken{},
		&types.Teacher{},

		// Catalog tree
		&types.Subject{},
		&types.Course{},
		&types.Topic{},
		&types.Content{},

		// Opaque course collections
		&types.Enrollment{},
		&types.Quiz{},
		&types.Exam{},
	)
}

// EnsureCatalogIndexes adds the postgres-specific indexes AutoMigrate cannot
// express. Constraints are enforced per live (not soft-deleted) row.
func EnsureCatalogIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_teacher_user_active
		ON teacher(user_id)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_teacher_user_active: %w", err)
	}

	// Serves the public catalog listing.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_course_public_created
		ON course(is_public, created_at DESC)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_course_public_created: %w", err)
	}

	return nil
}
