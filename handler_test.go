package hello

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildFunctionHandler_ServesIndexWithoutLiveReload(t *testing.T) {
	h, err := buildFunctionHandler(testEnv(map[string]string{"LIVE": "true", "SESSION_SECRET": "x"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), IndexMessage) {
		t.Errorf("expected hello text, got %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "<script>") {
		t.Error("function handler must not inject live reload")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live-reload", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for live reload path, got %d", rec.Code)
	}
}

func TestBuildFunctionHandler_InvalidEnv(t *testing.T) {
	if _, err := buildFunctionHandler(testEnv(map[string]string{"PORT": "nope"})); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
}

func TestHandler_ServesIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestIndex_IgnoresRequest(t *testing.T) {
	a, _ := Index(httptest.NewRequest(http.MethodGet, "/?q=1", nil))
	b, _ := Index(nil)

	if a.Title != IndexTitle || b.Title != IndexTitle {
		t.Errorf("unexpected titles %q %q", a.Title, b.Title)
	}
	if len(a.Paragraphs) != 1 || a.Paragraphs[0] != IndexMessage {
		t.Errorf("unexpected paragraphs %v", a.Paragraphs)
	}
}
