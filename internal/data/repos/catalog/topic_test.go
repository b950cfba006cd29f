package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/courseloop/courseloop-backend/internal/data/repos/testutil"
	types "github.com/courseloop/courseloop-backend/internal/domain"
)

func TestTopicRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewTopicRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "topicrepo@example.com")
	te := testutil.SeedTeacher(t, ctx, tx, u.ID)
	c := testutil.SeedCourse(t, ctx, tx, te.ID, "History", true)

	topic := &types.Topic{
		ID:       uuid.New(),
		CourseID: c.ID,
		Title:    "Chapter 1",
	}
	if _, err := repo.Create(ctx, tx, []*types.Topic{topic}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{topic.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByCourseIDs(ctx, tx, []uuid.UUID{c.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByCourseIDs: err=%v len=%d", err, len(rows))
	}

	if err := repo.UpdateTitle(ctx, tx, topic.ID, "Chapter One"); err != nil {
		t.Fatalf("UpdateTitle: %v", err)
	}
	rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{topic.ID})
	if err != nil || len(rows) != 1 || rows[0].Title != "Chapter One" {
		t.Fatalf("title not updated: err=%v rows=%v", err, rows)
	}

	if err := repo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{topic.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{topic.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after SoftDeleteByIDs: err=%v len=%d", err, len(rows))
	}

	t2 := testutil.SeedTopic(t, ctx, tx, c.ID, "Chapter 2")
	t3 := testutil.SeedTopic(t, ctx, tx, c.ID, "Chapter 3")
	if err := repo.SoftDeleteByCourseIDs(ctx, tx, []uuid.UUID{c.ID}); err != nil {
		t.Fatalf("SoftDeleteByCourseIDs: %v", err)
	}
	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{t2.ID, t3.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after SoftDeleteByCourseIDs: err=%v len=%d", err, len(rows))
	}
}
