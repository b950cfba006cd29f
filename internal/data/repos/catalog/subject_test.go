package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/courseloop/courseloop-backend/internal/data/repos/testutil"
	types "github.com/courseloop/courseloop-backend/internal/domain"
)

func TestSubjectRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSubjectRepo(db, testutil.Logger(t))

	s := &types.Subject{
		ID:   uuid.New(),
		Name: "mathematics",
	}
	if _, err := repo.Create(ctx, tx, []*types.Subject{s}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{s.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByNames(ctx, tx, []string{"mathematics"}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByNames: err=%v len=%d", err, len(rows))
	}

	testutil.SeedSubject(t, ctx, tx, "art history")
	rows, err := repo.List(ctx, tx)
	if err != nil || len(rows) < 2 {
		t.Fatalf("List: err=%v len=%d", err, len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].Name > rows[i].Name {
			t.Fatalf("List not sorted: %q before %q", rows[i-1].Name, rows[i].Name)
		}
	}
}
