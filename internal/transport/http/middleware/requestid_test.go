package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/job-tracker/internal/requestid"
	"github.com/ErlanBelekov/job-tracker/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func TestRequestID_PreservesIncomingAndBindsContext(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, requestid.FromContext(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestid.Header, "abc-123")
	r.ServeHTTP(w, req)

	if got := w.Header().Get(requestid.Header); got != "abc-123" {
		t.Errorf("header = %q, want abc-123", got)
	}
	if got := w.Body.String(); got != "abc-123" {
		t.Errorf("context id = %q, want abc-123", got)
	}
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Header().Get(requestid.Header) == "" {
		t.Fatal("expected generated request id")
	}
}
