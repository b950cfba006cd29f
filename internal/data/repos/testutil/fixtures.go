package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/courseloop/courseloop-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTeacher(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.Teacher {
	tb.Helper()
	te := &types.Teacher{
		ID:     uuid.New(),
		UserID: userID,
	}
	if err := tx.WithContext(ctx).Create(te).Error; err != nil {
		tb.Fatalf("seed teacher: %v", err)
	}
	return te
}

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Subject {
	tb.Helper()
	s := &types.Subject{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subject: %v", err)
	}
	return s
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, teacherID uuid.UUID, title string, isPublic bool) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:        uuid.New(),
		TeacherID: teacherID,
		Title:     title,
		IsPublic:  isPublic,
		Image:     "aW1n",
		ImageType: "image/png",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, title string) *types.Topic {
	tb.Helper()
	tp := &types.Topic{
		ID:       uuid.New(),
		CourseID: courseID,
		Title:    title,
	}
	if err := tx.WithContext(ctx).Create(tp).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return tp
}

func SeedContent(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, contentType, data string) *types.Content {
	tb.Helper()
	c := &types.Content{
		ID:      uuid.New(),
		TopicID: topicID,
		Type:    contentType,
		Data:    data,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed content: %v", err)
	}
	return c
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID, userID uuid.UUID) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{
		ID:       uuid.New(),
		CourseID: courseID,
		UserID:   userID,
		Metadata: datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID) *types.Quiz {
	tb.Helper()
	q := &types.Quiz{
		ID:       uuid.New(),
		CourseID: courseID,
		Title:    "quiz",
		Payload:  datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

func SeedExam(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID) *types.Exam {
	tb.Helper()
	e := &types.Exam{
		ID:       uuid.New(),
		CourseID: courseID,
		Title:    "exam",
		Payload:  datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed exam: %v", err)
	}
	return e
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
