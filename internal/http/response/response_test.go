package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/courseloop/courseloop-backend/internal/platform/apierr"
)

func TestRespondFromErrorUsesCarriedStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apierr.New(http.StatusNotFound, "course_not_found", fmt.Errorf("course not found")), http.StatusNotFound, "course_not_found"},
		{"denied", apierr.New(http.StatusUnauthorized, "not_owner", fmt.Errorf("caller does not own this course")), http.StatusUnauthorized, "not_owner"},
		{"plain error", fmt.Errorf("pq: constraint violated"), http.StatusBadRequest, "operation_failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			RespondFromError(c, tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status: want=%d got=%d", tc.wantStatus, rec.Code)
			}
			var env ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if env.Error.Code != tc.wantCode {
				t.Fatalf("code: want=%q got=%q", tc.wantCode, env.Error.Code)
			}
			if env.Error.Message == "" {
				t.Fatalf("message missing")
			}
		})
	}
}

func TestRespondCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondCreated(c, gin.H{"id": "abc"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: want=201 got=%d", rec.Code)
	}
}
