package app

import (
	"gorm.io/gorm"

	authrepo "github.com/courseloop/courseloop-backend/internal/data/repos/auth"
	"github.com/courseloop/courseloop-backend/internal/data/repos/catalog"
	userrepo "github.com/courseloop/courseloop-backend/internal/data/repos/user"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
)

type Repos struct {
	User      userrepo.UserRepo
	UserToken authrepo.UserTokenRepo

	Teacher    catalog.TeacherRepo
	Subject    catalog.SubjectRepo
	Course     catalog.CourseRepo
	Topic      catalog.TopicRepo
	Content    catalog.ContentRepo
	Enrollment catalog.EnrollmentRepo
	Quiz       catalog.QuizRepo
	Exam       catalog.ExamRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      userrepo.NewUserRepo(db, log),
		UserToken: authrepo.NewUserTokenRepo(db, log),

		Teacher:    catalog.NewTeacherRepo(db, log),
		Subject:    catalog.NewSubjectRepo(db, log),
		Course:     catalog.NewCourseRepo(db, log),
		Topic:      catalog.NewTopicRepo(db, log),
		Content:    catalog.NewContentRepo(db, log),
		Enrollment: catalog.NewEnrollmentRepo(db, log),
		Quiz:       catalog.NewQuizRepo(db, log),
		Exam:       catalog.NewExamRepo(db, log),
	}
}
