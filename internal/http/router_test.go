package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authrepo "github.com/courseloop/courseloop-backend/internal/data/repos/auth"
	"github.com/courseloop/courseloop-backend/internal/data/repos/catalog"
	"github.com/courseloop/courseloop-backend/internal/data/repos/testutil"
	userrepo "github.com/courseloop/courseloop-backend/internal/data/repos/user"
	httpH "github.com/courseloop/courseloop-backend/internal/http/handlers"
	httpMW "github.com/courseloop/courseloop-backend/internal/http/middleware"
	"github.com/courseloop/courseloop-backend/internal/services"
)

// testAPI is the whole backend wired over the shared test database,
// served in-process through the real router.
type testAPI struct {
	engine  *gin.Engine
	authSvc services.AuthService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "router-test-secret")

	db := testutil.DB(t)
	log := testutil.Logger(t)

	userRepo := userrepo.NewUserRepo(db, log)
	tokenRepo := authrepo.NewUserTokenRepo(db, log)
	teacherRepo := catalog.NewTeacherRepo(db, log)
	subjectRepo := catalog.NewSubjectRepo(db, log)
	courseRepo := catalog.NewCourseRepo(db, log)
	topicRepo := catalog.NewTopicRepo(db, log)
	contentRepo := catalog.NewContentRepo(db, log)
	enrollmentRepo := catalog.NewEnrollmentRepo(db, log)
	quizRepo := catalog.NewQuizRepo(db, log)
	examRepo := catalog.NewExamRepo(db, log)

	authSvc, err := services.NewAuthService(db, userRepo, tokenRepo, nil, log)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	ownership := services.NewOwnershipService(courseRepo, topicRepo, contentRepo, teacherRepo, log)
	courseSvc := services.NewCourseService(db, courseRepo, topicRepo, contentRepo, enrollmentRepo, quizRepo, examRepo, teacherRepo, subjectRepo, ownership, nil, log)
	topicSvc := services.NewTopicService(db, topicRepo, contentRepo, ownership, nil, log)
	contentSvc := services.NewContentService(contentRepo, topicRepo, ownership, nil, log)
	subjectSvc := services.NewSubjectService(subjectRepo, log)
	teacherSvc := services.NewTeacherService(teacherRepo, log)
	userSvc := services.NewUserService(userRepo, log)

	engine := NewRouter(RouterConfig{
		Log:            log,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, authSvc, teacherSvc),
		HealthHandler:  httpH.NewHealthHandler(),
		AuthHandler:    httpH.NewAuthHandler(authSvc),
		UserHandler:    httpH.NewUserHandler(userSvc),
		TeacherHandler: httpH.NewTeacherHandler(teacherSvc),
		SubjectHandler: httpH.NewSubjectHandler(subjectSvc),
		CourseHandler:  httpH.NewCourseHandler(log, courseSvc),
		TopicHandler:   httpH.NewTopicHandler(topicSvc),
		ContentHandler: httpH.NewContentHandler(contentSvc),
		ServiceName:    "courseloop-test",
	})
	return &testAPI{engine: engine, authSvc: authSvc}
}

func (a *testAPI) do(t *testing.T, req *stdhttp.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) jsonReq(t *testing.T, method, target, token string, body any) *stdhttp.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// multipartReq builds the create/update course form. A nil image map
// entry omits the file field entirely.
func (a *testAPI) multipartReq(t *testing.T, method, target, token string, fields map[string]string, image []byte) *stdhttp.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if image != nil {
		fw, err := w.CreateFormFile("image", "cover.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.Copy(fw, bytes.NewReader(image)); err != nil {
			t.Fatalf("copy image: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// signupTeacher registers a user, logs in and creates the teacher
// profile through the API, returning the access token.
func (a *testAPI) signupTeacher(t *testing.T) string {
	t.Helper()
	email := "teacher-" + uuid.NewString()[:8] + "@example.com"
	rec := a.do(t, a.jsonReq(t, stdhttp.MethodPost, "/api/register", "", gin.H{
		"email":      email,
		"password":   "hunter22",
		"first_name": "Tess",
		"last_name":  "Teacher",
	}))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("register: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = a.do(t, a.jsonReq(t, stdhttp.MethodPost, "/api/login", "", gin.H{
		"email": email, "password": "hunter22",
	}))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("login: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var login struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	rec = a.do(t, a.jsonReq(t, stdhttp.MethodPost, "/api/teachers", login.AccessToken, nil))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("create teacher profile: status=%d body=%s", rec.Code, rec.Body.String())
	}
	return login.AccessToken
}

func (a *testAPI) createCourse(t *testing.T, token, title string, public bool) string {
	t.Helper()
	rec := a.do(t, a.multipartReq(t, stdhttp.MethodPost, "/api/courses/create", token, map[string]string{
		"title":    title,
		"isPublic": fmt.Sprintf("%t", public),
	}, []byte("png-bytes")))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("create course: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var created struct {
		Course struct {
			ID string `json:"id"`
		} `json:"course"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created course: %v", err)
	}
	return created.Course.ID
}

func decodeCourses(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var body struct {
		Courses []map[string]any `json:"courses"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode courses: %v body=%s", err, rec.Body.String())
	}
	return body.Courses
}

func containsCourse(courses []map[string]any, id string) bool {
	for _, c := range courses {
		if c["id"] == id {
			return true
		}
	}
	return false
}

func TestHealthcheck(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, httptest.NewRequest(stdhttp.MethodGet, "/healthcheck", nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
}

func TestCourseLifecycleAcrossTeachers(t *testing.T) {
	api := newTestAPI(t)
	tokenT := api.signupTeacher(t)
	tokenT2 := api.signupTeacher(t)

	courseID := api.createCourse(t, tokenT, "Algebra I", true)

	// The public listing (no auth) carries the new course.
	rec := api.do(t, httptest.NewRequest(stdhttp.MethodGet, "/api/courses/public", nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("public list: status=%d", rec.Code)
	}
	if !containsCourse(decodeCourses(t, rec), courseID) {
		t.Fatalf("public list missing course %s", courseID)
	}

	// A different teacher cannot delete it.
	rec = api.do(t, api.jsonReq(t, stdhttp.MethodDelete, "/api/courses/"+courseID, tokenT2, nil))
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("foreign delete: want=401 got=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = api.do(t, api.jsonReq(t, stdhttp.MethodGet, "/api/courses/"+courseID, tokenT, nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("course vanished after rejected delete: %d", rec.Code)
	}

	// The owner can.
	rec = api.do(t, api.jsonReq(t, stdhttp.MethodDelete, "/api/courses/"+courseID, tokenT, nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("owner delete: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = api.do(t, api.jsonReq(t, stdhttp.MethodGet, "/api/courses/"+courseID, tokenT, nil))
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("deleted course still readable: %d", rec.Code)
	}
}

func TestTopicAndContentFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.signupTeacher(t)
	courseID := api.createCourse(t, token, "Geometry", false)

	rec := api.do(t, api.jsonReq(t, stdhttp.MethodPost, "/api/courses/"+courseID+"/addTopic", token, gin.H{
		"title": "Chapter 1",
	}))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("add topic: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var topicResp struct {
		Topic struct {
			ID string `json:"id"`
		} `json:"topic"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &topicResp); err != nil {
		t.Fatalf("decode topic: %v", err)
	}

	rec = api.do(t, api.jsonReq(t, stdhttp.MethodPost, "/api/courses/"+topicResp.Topic.ID+"/addContent", token, gin.H{
		"type": "LINK",
		"data": "http://x",
	}))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("add content: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var contentResp struct {
		Content struct {
			ID   string `json:"id"`
			Type string `json:"type"`
			Data string `json:"data"`
		} `json:"content"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &contentResp); err != nil {
		t.Fatalf("decode content: %v", err)
	}

	rec = api.do(t, api.jsonReq(t, stdhttp.MethodGet, "/api/courses/"+topicResp.Topic.ID+"/content", token, nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("list content: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var listResp struct {
		Contents []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
			Data string `json:"data"`
		} `json:"contents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode content list: %v", err)
	}
	if len(listResp.Contents) != 1 {
		t.Fatalf("content list: want exactly 1 item, got %d", len(listResp.Contents))
	}
	if listResp.Contents[0].ID != contentResp.Content.ID ||
		listResp.Contents[0].Type != "LINK" ||
		listResp.Contents[0].Data != "http://x" {
		t.Fatalf("content list mismatch: %+v", listResp.Contents[0])
	}
}

func TestContentRejectsUnknownType(t *testing.T) {
	api := newTestAPI(t)
	token := api.signupTeacher(t)
	courseID := api.createCourse(t, token, "Music", false)

	rec := api.do(t, api.jsonReq(t, stdhttp.MethodPost, "/api/courses/"+courseID+"/addTopic", token, gin.H{
		"title": "Listening",
	}))
	var topicResp struct {
		Topic struct {
			ID string `json:"id"`
		} `json:"topic"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &topicResp); err != nil {
		t.Fatalf("decode topic: %v", err)
	}

	rec = api.do(t, api.jsonReq(t, stdhttp.MethodPost, "/api/courses/"+topicResp.Topic.ID+"/addContent", token, gin.H{
		"type": "AUDIO",
		"data": "sample.mp3",
	}))
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("AUDIO content: want=400 got=%d body=%s", rec.Code, rec.Body.String())
	}

	// Nothing was created under the topic.
	rec = api.do(t, api.jsonReq(t, stdhttp.MethodGet, "/api/courses/"+topicResp.Topic.ID+"/content", token, nil))
	var listResp struct {
		Contents []map[string]any `json:"contents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode content list: %v", err)
	}
	if len(listResp.Contents) != 0 {
		t.Fatalf("rejected content persisted: %d items", len(listResp.Contents))
	}
}

func TestCreateCourseValidation(t *testing.T) {
	api := newTestAPI(t)
	token := api.signupTeacher(t)

	cases := []struct {
		name   string
		fields map[string]string
		image  []byte
	}{
		{"missing title", map[string]string{"isPublic": "true"}, []byte("img")},
		{"missing image", map[string]string{"title": "No Cover"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.do(t, api.multipartReq(t, stdhttp.MethodPost, "/api/courses/create", token, tc.fields, tc.image))
			if rec.Code != stdhttp.StatusBadRequest {
				t.Fatalf("want=400 got=%d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestVisibilityFlagNormalization(t *testing.T) {
	api := newTestAPI(t)
	token := api.signupTeacher(t)

	cases := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"True", false},
		{"1", false},
		{"yes", false},
		{"", false},
	}
	for _, tc := range cases {
		rec := api.do(t, api.multipartReq(t, stdhttp.MethodPost, "/api/courses/create", token, map[string]string{
			"title":    "Flag " + tc.raw,
			"isPublic": tc.raw,
		}, []byte("img")))
		if rec.Code != stdhttp.StatusCreated {
			t.Fatalf("create with isPublic=%q: status=%d body=%s", tc.raw, rec.Code, rec.Body.String())
		}
		var created struct {
			Course struct {
				IsPublic bool `json:"is_public"`
			} `json:"course"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("decode course: %v", err)
		}
		if created.Course.IsPublic != tc.want {
			t.Fatalf("isPublic=%q: want=%t got=%t", tc.raw, tc.want, created.Course.IsPublic)
		}
	}
}

func TestTeacherGateOnAuthoringRoutes(t *testing.T) {
	api := newTestAPI(t)

	// A plain user (no teacher profile) is turned away from authoring.
	email := "student-" + uuid.NewString()[:8] + "@example.com"
	rec := api.do(t, api.jsonReq(t, stdhttp.MethodPost, "/api/register", "", gin.H{
		"email": email, "password": "hunter22", "first_name": "Sam", "last_name": "Student",
	}))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("register: %d", rec.Code)
	}
	access, _, err := api.authSvc.LoginUser(context.Background(), email, "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rec = api.do(t, api.jsonReq(t, stdhttp.MethodGet, "/api/courses/all", access, nil))
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("courses/all without profile: want=401 got=%d", rec.Code)
	}

	// Unauthenticated requests never reach the gate.
	rec = api.do(t, api.jsonReq(t, stdhttp.MethodGet, "/api/courses/all", "", nil))
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("courses/all without token: want=401 got=%d", rec.Code)
	}
}

func TestGetMeReflectsTeacherProfile(t *testing.T) {
	api := newTestAPI(t)

	email := "me-" + uuid.NewString()[:8] + "@example.com"
	rec := api.do(t, api.jsonReq(t, stdhttp.MethodPost, "/api/register", "", gin.H{
		"email": email, "password": "hunter22", "first_name": "Mel", "last_name": "Mi",
	}))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("register: %d", rec.Code)
	}
	access, _, err := api.authSvc.LoginUser(context.Background(), email, "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rec = api.do(t, api.jsonReq(t, stdhttp.MethodGet, "/api/me", access, nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("/api/me: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Me struct {
			Email   string          `json:"email"`
			Teacher json.RawMessage `json:"teacher"`
		} `json:"me"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if body.Me.Email != email {
		t.Fatalf("email: want=%q got=%q", email, body.Me.Email)
	}
	if len(body.Me.Teacher) != 0 && string(body.Me.Teacher) != "null" {
		t.Fatalf("fresh account already carries a teacher profile: %s", body.Me.Teacher)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("password")) {
		t.Fatalf("password leaked into /me response: %s", rec.Body.String())
	}

	// The freshly created profile appears on the next read.
	rec = api.do(t, api.jsonReq(t, stdhttp.MethodPost, "/api/teachers", access, nil))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("create teacher profile: %d", rec.Code)
	}
	rec = api.do(t, api.jsonReq(t, stdhttp.MethodGet, "/api/me", access, nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode me after profile: %v", err)
	}
	if len(body.Me.Teacher) == 0 || string(body.Me.Teacher) == "null" {
		t.Fatalf("teacher profile missing from /me after creation")
	}

	rec = api.do(t, api.jsonReq(t, stdhttp.MethodGet, "/api/me", "", nil))
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("anonymous /me: want=401 got=%d", rec.Code)
	}
}

func TestUpdateFlowsThroughOwnershipChain(t *testing.T) {
	api := newTestAPI(t)
	owner := api.signupTeacher(t)
	intruder := api.signupTeacher(t)
	courseID := api.createCourse(t, owner, "Chemistry", false)

	rec := api.do(t, api.jsonReq(t, stdhttp.MethodPost, "/api/courses/"+courseID+"/addTopic", owner, gin.H{"title": "Atoms"}))
	var topicResp struct {
		Topic struct {
			ID string `json:"id"`
		} `json:"topic"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &topicResp); err != nil {
		t.Fatalf("decode topic: %v", err)
	}

	// Owner renames the topic.
	rec = api.do(t, api.jsonReq(t, stdhttp.MethodPut, "/api/courses/topic/"+topicResp.Topic.ID, owner, gin.H{"title": "Atoms & Ions"}))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("owner topic update: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}

	// The intruder cannot, and the title stays put.
	rec = api.do(t, api.jsonReq(t, stdhttp.MethodPut, "/api/courses/topic/"+topicResp.Topic.ID, intruder, gin.H{"title": "Hijack"}))
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("intruder topic update: want=401 got=%d", rec.Code)
	}

	// Missing ids report 404 ahead of any ownership verdict.
	rec = api.do(t, api.jsonReq(t, stdhttp.MethodPut, "/api/courses/topic/"+uuid.NewString(), intruder, gin.H{"title": "x"}))
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("missing topic update: want=404 got=%d", rec.Code)
	}

	// Course update through multipart keeps the untouched fields.
	rec = api.do(t, api.multipartReq(t, stdhttp.MethodPut, "/api/courses/"+courseID, owner, map[string]string{
		"description": "periodic table",
	}, nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("course update: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	var updated struct {
		Course struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"course"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode updated course: %v", err)
	}
	if updated.Course.Title != "Chemistry" || updated.Course.Description != "periodic table" {
		t.Fatalf("partial update wrong: %+v", updated.Course)
	}
}
