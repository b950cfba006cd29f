package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authrepo "github.com/courseloop/courseloop-backend/internal/data/repos/auth"
	"github.com/courseloop/courseloop-backend/internal/data/repos/catalog"
	"github.com/courseloop/courseloop-backend/internal/data/repos/testutil"
	userrepo "github.com/courseloop/courseloop-backend/internal/data/repos/user"
	types "github.com/courseloop/courseloop-backend/internal/domain"
	"github.com/courseloop/courseloop-backend/internal/pkg/ctxutil"
)

// harness wires real repos over the shared test database so service
// tests exercise the full stack below the HTTP layer.
type harness struct {
	db             *gorm.DB
	userRepo       userrepo.UserRepo
	tokenRepo      authrepo.UserTokenRepo
	teacherRepo    catalog.TeacherRepo
	subjectRepo    catalog.SubjectRepo
	courseRepo     catalog.CourseRepo
	topicRepo      catalog.TopicRepo
	contentRepo    catalog.ContentRepo
	enrollmentRepo catalog.EnrollmentRepo
	quizRepo       catalog.QuizRepo
	examRepo       catalog.ExamRepo

	ownership  OwnershipService
	courseSvc  CourseService
	topicSvc   TopicService
	contentSvc ContentService
	subjectSvc SubjectService
	teacherSvc TeacherService
	userSvc    UserService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	h := &harness{
		db:             db,
		userRepo:       userrepo.NewUserRepo(db, log),
		tokenRepo:      authrepo.NewUserTokenRepo(db, log),
		teacherRepo:    catalog.NewTeacherRepo(db, log),
		subjectRepo:    catalog.NewSubjectRepo(db, log),
		courseRepo:     catalog.NewCourseRepo(db, log),
		topicRepo:      catalog.NewTopicRepo(db, log),
		contentRepo:    catalog.NewContentRepo(db, log),
		enrollmentRepo: catalog.NewEnrollmentRepo(db, log),
		quizRepo:       catalog.NewQuizRepo(db, log),
		examRepo:       catalog.NewExamRepo(db, log),
	}
	h.ownership = NewOwnershipService(h.courseRepo, h.topicRepo, h.contentRepo, h.teacherRepo, log)
	h.courseSvc = NewCourseService(db, h.courseRepo, h.topicRepo, h.contentRepo, h.enrollmentRepo, h.quizRepo, h.examRepo, h.teacherRepo, h.subjectRepo, h.ownership, nil, log)
	h.topicSvc = NewTopicService(db, h.topicRepo, h.contentRepo, h.ownership, nil, log)
	h.contentSvc = NewContentService(h.contentRepo, h.topicRepo, h.ownership, nil, log)
	h.subjectSvc = NewSubjectService(h.subjectRepo, log)
	h.teacherSvc = NewTeacherService(h.teacherRepo, log)
	h.userSvc = NewUserService(h.userRepo, log)
	return h
}

// seedTeacherContext creates a user with a teacher profile and returns
// a context carrying that caller's identity.
func (h *harness) seedTeacherContext(t *testing.T) (context.Context, *types.User, *types.Teacher) {
	t.Helper()
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, h.db, uniqueEmail("teacher"))
	te := testutil.SeedTeacher(t, ctx, h.db, u.ID)
	rd := &ctxutil.RequestData{UserID: u.ID, TeacherID: te.ID}
	return ctxutil.WithRequestData(ctx, rd), u, te
}

// seedUserContext creates a plain user without a teacher profile.
func (h *harness) seedUserContext(t *testing.T) (context.Context, *types.User) {
	t.Helper()
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, h.db, uniqueEmail("student"))
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: u.ID}), u
}

func uniqueEmail(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8] + "@example.com"
}
