package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-review/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Session(SessionOptions{}), Logging())
	router.POST("/test", func(c *gin.Context) {
		c.Set("fileName", "resume.pdf")
		c.Set("phase", "result")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	var buf bytes.Buffer
	telemetry.SetOutput(&buf)
	defer telemetry.SetOutput(os.Stdout)

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.Header.Set(SessionHeader, "0b0e2a5e-2f54-4a7f-9f3c-6d2f0e6f7a11")
	req.Header.Set("X-Request-Id", "req-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) == 0 {
		t.Fatalf("expected log output")
	}
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"ts", "level", "msg", "request_id", "session_id", "file_name", "duration_ms", "status", "phase"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["msg"] != "request.complete" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["request_id"] != "req-1" {
		t.Fatalf("unexpected request_id: %v", payload["request_id"])
	}
	if payload["session_id"] != "0b0e2a5e-2f54-4a7f-9f3c-6d2f0e6f7a11" {
		t.Fatalf("unexpected session_id: %v", payload["session_id"])
	}
	if payload["file_name"] != "resume.pdf" {
		t.Fatalf("unexpected file_name: %v", payload["file_name"])
	}
	if payload["phase"] != "result" {
		t.Fatalf("unexpected phase: %v", payload["phase"])
	}
}
