package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/courseloop/courseloop-backend/internal/clients/redis"
	"github.com/courseloop/courseloop-backend/internal/data/repos/catalog"
	types "github.com/courseloop/courseloop-backend/internal/domain"
	"github.com/courseloop/courseloop-backend/internal/normalization"
	"github.com/courseloop/courseloop-backend/internal/pkg/ctxutil"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
	"github.com/courseloop/courseloop-backend/internal/platform/apierr"
)

// CreateCourseInput is the parsed multipart create form. Image holds
// the raw upload; the service base64-encodes it for storage.
type CreateCourseInput struct {
	Title       string
	Description string
	IsPublic    bool
	SubjectID   string
	Image       []byte
	ImageType   string
}

// UpdateCourseInput carries only the fields the client supplied. Nil
// pointers leave the stored value untouched; SubjectID set to the
// empty string clears the subject.
type UpdateCourseInput struct {
	CourseID    uuid.UUID
	Title       *string
	Description *string
	IsPublic    *bool
	SubjectID   *string
	Image       []byte
	ImageType   string
}

// CourseService owns the course catalog: authoring, listing and the
// cascading delete of a course tree. All mutations require the caller
// to own the course through their teacher profile.
type CourseService interface {
	Create(ctx context.Context, input *CreateCourseInput) (*types.Course, error)
	ListAll(ctx context.Context) ([]*types.Course, error)
	ListPublic(ctx context.Context) ([]*types.Course, error)
	GetDetail(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
	Update(ctx context.Context, input *UpdateCourseInput) (*types.Course, error)
	Delete(ctx context.Context, courseID uuid.UUID) error
}

type courseService struct {
	db             *gorm.DB
	courseRepo     catalog.CourseRepo
	topicRepo      catalog.TopicRepo
	contentRepo    catalog.ContentRepo
	enrollmentRepo catalog.EnrollmentRepo
	quizRepo       catalog.QuizRepo
	examRepo       catalog.ExamRepo
	teacherRepo    catalog.TeacherRepo
	subjectRepo    catalog.SubjectRepo
	ownership      OwnershipService
	cache          redis.CatalogCache
	flight         singleflight.Group
	log            *logger.Logger
}

func NewCourseService(
	db *gorm.DB,
	courseRepo catalog.CourseRepo,
	topicRepo catalog.TopicRepo,
	contentRepo catalog.ContentRepo,
	enrollmentRepo catalog.EnrollmentRepo,
	quizRepo catalog.QuizRepo,
	examRepo catalog.ExamRepo,
	teacherRepo catalog.TeacherRepo,
	subjectRepo catalog.SubjectRepo,
	ownership OwnershipService,
	cache redis.CatalogCache,
	baseLog *logger.Logger,
) CourseService {
	return &courseService{
		db:             db,
		courseRepo:     courseRepo,
		topicRepo:      topicRepo,
		contentRepo:    contentRepo,
		enrollmentRepo: enrollmentRepo,
		quizRepo:       quizRepo,
		examRepo:       examRepo,
		teacherRepo:    teacherRepo,
		subjectRepo:    subjectRepo,
		ownership:      ownership,
		cache:          cache,
		log:            baseLog.With("service", "CourseService"),
	}
}

// Create validates the form, resolves the caller's teacher profile and
// persists the course with its image inlined as base64.
func (cs *courseService) Create(ctx context.Context, input *CreateCourseInput) (*types.Course, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("authentication is required"))
	}
	if input == nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_request", fmt.Errorf("course payload is required"))
	}
	title := normalization.TrimInput(input.Title)
	if title == "" {
		return nil, apierr.New(http.StatusBadRequest, "title_required", fmt.Errorf("a course title is required"))
	}
	if len(input.Image) == 0 {
		return nil, apierr.New(http.StatusBadRequest, "image_required", fmt.Errorf("a course image is required"))
	}

	teachers, err := cs.teacherRepo.GetByUserIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		cs.log.Error("Failed to load teacher profile", "user_id", rd.UserID, "error", err)
		return nil, operationFailed()
	}
	if len(teachers) == 0 {
		return nil, apierr.New(http.StatusBadRequest, "teacher_profile_required", fmt.Errorf("a teacher profile is required to create courses"))
	}

	subjectID, err := cs.resolveSubjectID(ctx, input.SubjectID)
	if err != nil {
		return nil, err
	}

	course := &types.Course{
		ID:          uuid.New(),
		TeacherID:   teachers[0].ID,
		SubjectID:   subjectID,
		Title:       title,
		Description: normalization.TrimInput(input.Description),
		IsPublic:    input.IsPublic,
		Image:       base64.StdEncoding.EncodeToString(input.Image),
		ImageType:   imageTypeOrDefault(input.ImageType),
	}
	created, err := cs.courseRepo.Create(ctx, nil, []*types.Course{course})
	if err != nil {
		cs.log.Error("Failed to create course", "teacher_id", teachers[0].ID, "error", err)
		return nil, operationFailed()
	}
	cs.invalidateCatalog(ctx)
	cs.log.Info("Created course", "course_id", created[0].ID, "teacher_id", teachers[0].ID)
	return created[0], nil
}

// ListAll returns every course with its teacher, public or not.
func (cs *courseService) ListAll(ctx context.Context) ([]*types.Course, error) {
	courses, err := cs.courseRepo.ListWithTeacher(ctx, nil)
	if err != nil {
		cs.log.Error("Failed to list courses", "error", err)
		return nil, operationFailed()
	}
	return courses, nil
}

// ListPublic serves the public catalog through the cache. Concurrent
// misses share one database read via singleflight.
func (cs *courseService) ListPublic(ctx context.Context) ([]*types.Course, error) {
	if cs.cache != nil {
		if courses, ok := cs.cache.GetPublicCourses(ctx); ok {
			return courses, nil
		}
	}
	v, err, _ := cs.flight.Do(publicCoursesFlightKey, func() (interface{}, error) {
		courses, err := cs.courseRepo.ListPublicDetailed(ctx, nil)
		if err != nil {
			return nil, err
		}
		if cs.cache != nil {
			cs.cache.SetPublicCourses(ctx, courses)
		}
		return courses, nil
	})
	if err != nil {
		cs.log.Error("Failed to list public courses", "error", err)
		return nil, operationFailed()
	}
	return v.([]*types.Course), nil
}

func (cs *courseService) GetDetail(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	courses, err := cs.courseRepo.GetDetailByIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		cs.log.Error("Failed to load course detail", "course_id", courseID, "error", err)
		return nil, operationFailed()
	}
	if len(courses) == 0 {
		return nil, apierr.New(http.StatusNotFound, "course_not_found", fmt.Errorf("course not found"))
	}
	return courses[0], nil
}

// Update applies only the supplied fields. The image is replaced only
// when a new file arrives; the owning teacher can never change.
func (cs *courseService) Update(ctx context.Context, input *UpdateCourseInput) (*types.Course, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("authentication is required"))
	}
	if input == nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_request", fmt.Errorf("course payload is required"))
	}
	if err := cs.ownership.Authorize(ctx, nil, KindCourse, input.CourseID, rd.UserID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Title != nil {
		title := normalization.TrimInput(*input.Title)
		if title == "" {
			return nil, apierr.New(http.StatusBadRequest, "title_required", fmt.Errorf("a course title is required"))
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = normalization.TrimInput(*input.Description)
	}
	if input.IsPublic != nil {
		fields["is_public"] = *input.IsPublic
	}
	if input.SubjectID != nil {
		if normalization.TrimInput(*input.SubjectID) == "" {
			fields["subject_id"] = nil
		} else {
			subjectID, err := cs.resolveSubjectID(ctx, *input.SubjectID)
			if err != nil {
				return nil, err
			}
			fields["subject_id"] = *subjectID
		}
	}
	if len(input.Image) > 0 {
		fields["image"] = base64.StdEncoding.EncodeToString(input.Image)
		fields["image_type"] = imageTypeOrDefault(input.ImageType)
	}

	if len(fields) > 0 {
		if err := cs.courseRepo.Update(ctx, nil, input.CourseID, fields); err != nil {
			cs.log.Error("Failed to update course", "course_id", input.CourseID, "error", err)
			return nil, operationFailed()
		}
	}
	cs.invalidateCatalog(ctx)

	courses, err := cs.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{input.CourseID})
	if err != nil || len(courses) == 0 {
		cs.log.Error("Failed to reload updated course", "course_id", input.CourseID, "error", err)
		return nil, operationFailed()
	}
	cs.log.Info("Updated course", "course_id", input.CourseID)
	return courses[0], nil
}

// Delete removes the course and everything hanging off it in one
// transaction: contents, topics, enrollments, quizzes and exams.
func (cs *courseService) Delete(ctx context.Context, courseID uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("authentication is required"))
	}
	if err := cs.ownership.Authorize(ctx, nil, KindCourse, courseID, rd.UserID); err != nil {
		return err
	}

	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		topics, err := cs.topicRepo.GetByCourseIDs(ctx, tx, []uuid.UUID{courseID})
		if err != nil {
			return err
		}
		if len(topics) > 0 {
			topicIDs := make([]uuid.UUID, 0, len(topics))
			for _, t := range topics {
				topicIDs = append(topicIDs, t.ID)
			}
			if err := cs.contentRepo.SoftDeleteByTopicIDs(ctx, tx, topicIDs); err != nil {
				return err
			}
		}
		if err := cs.topicRepo.SoftDeleteByCourseIDs(ctx, tx, []uuid.UUID{courseID}); err != nil {
			return err
		}
		if err := cs.enrollmentRepo.SoftDeleteByCourseIDs(ctx, tx, []uuid.UUID{courseID}); err != nil {
			return err
		}
		if err := cs.quizRepo.SoftDeleteByCourseIDs(ctx, tx, []uuid.UUID{courseID}); err != nil {
			return err
		}
		if err := cs.examRepo.SoftDeleteByCourseIDs(ctx, tx, []uuid.UUID{courseID}); err != nil {
			return err
		}
		return cs.courseRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{courseID})
	})
	if err != nil {
		cs.log.Error("Failed to delete course", "course_id", courseID, "error", err)
		return operationFailed()
	}
	cs.invalidateCatalog(ctx)
	cs.log.Info("Deleted course", "course_id", courseID)
	return nil
}

// resolveSubjectID parses and verifies an optional subject reference.
func (cs *courseService) resolveSubjectID(ctx context.Context, raw string) (*uuid.UUID, error) {
	raw = normalization.TrimInput(raw)
	if raw == "" {
		return nil, nil
	}
	subjectID, err := uuid.Parse(raw)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_subject_id", fmt.Errorf("subject id is not a valid uuid"))
	}
	subjects, err := cs.subjectRepo.GetByIDs(ctx, nil, []uuid.UUID{subjectID})
	if err != nil {
		cs.log.Error("Failed to load subject", "subject_id", subjectID, "error", err)
		return nil, operationFailed()
	}
	if len(subjects) == 0 {
		return nil, apierr.New(http.StatusBadRequest, "subject_not_found", fmt.Errorf("subject not found"))
	}
	return &subjectID, nil
}

func (cs *courseService) invalidateCatalog(ctx context.Context) {
	if cs.cache != nil {
		cs.cache.InvalidatePublicCourses(ctx)
	}
}

func imageTypeOrDefault(imageType string) string {
	if imageType == "" {
		return "application/octet-stream"
	}
	return imageType
}

const publicCoursesFlightKey = "public_courses"
