package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorResponse_ProblemJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/initiate-call", nil)
	c.Set("trace_id", "trace-1")

	Unauthorized(c, "missing api key")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want application/problem+json", ct)
	}

	var p ProblemDetail
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.TraceID != "trace-1" || p.Instance != "/initiate-call" {
		t.Errorf("problem = %+v", p)
	}
	if p.Type != problemBaseURL+"/unauthorized" {
		t.Errorf("Type = %q", p.Type)
	}
	if !c.IsAborted() {
		t.Error("context not aborted")
	}
}

func TestStatusError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	StatusError(c, http.StatusBadRequest, "Phone number is required")

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "error" || body["message"] != "Phone number is required" {
		t.Errorf("body = %v", body)
	}
}
