package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/courseloop/courseloop-backend/internal/data/repos/testutil"
	types "github.com/courseloop/courseloop-backend/internal/domain"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewUserRepo(db, testutil.Logger(t))

	u := &types.User{
		ID:        uuid.New(),
		Email:     "userrepo@example.com",
		Password:  "hashed",
		FirstName: "Grace",
		LastName:  "Hopper",
	}
	if _, err := repo.Create(ctx, tx, []*types.User{u}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{u.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByEmails(ctx, tx, []string{"userrepo@example.com"}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByEmails: err=%v len=%d", err, len(rows))
	}

	exists, err := repo.EmailExists(ctx, tx, "userrepo@example.com")
	if err != nil || !exists {
		t.Fatalf("EmailExists: err=%v exists=%v", err, exists)
	}
	exists, err = repo.EmailExists(ctx, tx, "nobody@example.com")
	if err != nil || exists {
		t.Fatalf("EmailExists miss: err=%v exists=%v", err, exists)
	}

	if err := repo.UpdateName(ctx, tx, u.ID, "Grace", "Murray"); err != nil {
		t.Fatalf("UpdateName: %v", err)
	}
	if err := repo.UpdateAvatar(ctx, tx, u.ID, "aW1n", "image/png"); err != nil {
		t.Fatalf("UpdateAvatar: %v", err)
	}
	rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs after update: err=%v len=%d", err, len(rows))
	}
	if rows[0].LastName != "Murray" || rows[0].Avatar != "aW1n" {
		t.Fatalf("update not applied: last_name=%q avatar=%q", rows[0].LastName, rows[0].Avatar)
	}

	testutil.SeedTeacher(t, ctx, tx, u.ID)
	withTeacher, err := repo.GetWithTeacherByIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil || len(withTeacher) != 1 {
		t.Fatalf("GetWithTeacherByIDs: err=%v len=%d", err, len(withTeacher))
	}
	if withTeacher[0].Teacher == nil {
		t.Fatalf("expected teacher profile preloaded")
	}
}
