package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"khietan/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

func serve(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	router := httprouter.New()
	h.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec, resp
}

func TestHealth_AlwaysOK(t *testing.T) {
	failing := CheckFunc{CheckName: "mongo", Fn: func(context.Context) error { return errors.New("down") }}
	rec, resp := serve(t, NewHandler(logger.Discard(), failing), "/health")

	if rec.Code != http.StatusOK || resp.Status != "ok" {
		t.Errorf("health = %d %q, want 200 ok", rec.Code, resp.Status)
	}
}

func TestReady(t *testing.T) {
	ok := CheckFunc{CheckName: "mongo", Fn: func(context.Context) error { return nil }}
	bad := CheckFunc{CheckName: "redis", Fn: func(context.Context) error { return errors.New("refused") }}

	tests := []struct {
		name       string
		checkers   []Checker
		wantStatus int
		wantChecks map[string]string
	}{
		{name: "no dependencies", wantStatus: http.StatusOK, wantChecks: map[string]string{}},
		{name: "all healthy", checkers: []Checker{ok}, wantStatus: http.StatusOK, wantChecks: map[string]string{"mongo": "ok"}},
		{name: "one failing", checkers: []Checker{ok, bad}, wantStatus: http.StatusServiceUnavailable, wantChecks: map[string]string{"mongo": "ok", "redis": "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := serve(t, NewHandler(logger.Discard(), tt.checkers...), "/ready")

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			for name, want := range tt.wantChecks {
				if resp.Checks[name] != want {
					t.Errorf("check %s = %q, want %q", name, resp.Checks[name], want)
				}
			}
		})
	}
}
