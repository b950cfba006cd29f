package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/courseloop/courseloop-backend/internal/pkg/ctxutil"
)

func TestAttachTraceContextMintsAndPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen *ctxutil.TraceData
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	// No inbound ids: both get minted and echoed on the response.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == nil || seen.TraceID == "" || seen.RequestID == "" {
		t.Fatalf("trace data not attached: %+v", seen)
	}
	if rec.Header().Get("X-Trace-Id") != seen.TraceID {
		t.Fatalf("trace id header mismatch")
	}
	if rec.Header().Get("X-Request-Id") != seen.RequestID {
		t.Fatalf("request id header mismatch")
	}

	// Inbound ids survive the round trip.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	req.Header.Set("X-Trace-Id", "trace-456")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen.RequestID != "req-123" || seen.TraceID != "trace-456" {
		t.Fatalf("inbound ids not propagated: %+v", seen)
	}
}
