package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest is what the fake servers saw.
type recordedRequest struct {
	Method         string
	Path           string
	Body           map[string]any
	List           []map[string]any
	IdempotencyKey string
}

type fakeServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
}

// newFakeServer answers every request with the response registered for "METHOD path".
func newFakeServer(t *testing.T, responses map[string]string) *fakeServer {
	t.Helper()
	f := &fakeServer{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, IdempotencyKey: r.Header.Get("Idempotency-Key")}
		if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
			_ = json.Unmarshal(raw, &rec.List)
		} else if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()

		body, ok := responses[r.Method+" "+r.URL.Path]
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":"Route not found","code":"NOT_FOUND"}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeServer) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func (f *fakeServer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := cli(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// ────────────────────────────────────────────────────────────────
// Dispatch
// ────────────────────────────────────────────────────────────────

func TestCLI_NoCommandPrintsUsage(t *testing.T) {
	code, _, stderr := run(t, "")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: roomctl")
	assert.Contains(t, stderr, "watch")
}

func TestCLI_UnknownCommand(t *testing.T) {
	code, _, stderr := run(t, "", "rename")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "rename"`)
}

func TestCLI_CommandHelpExitsZero(t *testing.T) {
	code, _, stderr := run(t, "", "add", "-h")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "-capacity")
}

// ────────────────────────────────────────────────────────────────
// Admin commands
// ────────────────────────────────────────────────────────────────

func TestCLI_List(t *testing.T) {
	srv := newFakeServer(t, map[string]string{
		"GET /admin/rooms": `{"success":true,"data":[
			{"room_id":1,"name":"Garden View","price":450000,"capacity":2,"status":"available","bookings":[]},
			{"room_id":2,"name":"Rice Field","price":600000,"capacity":4,"status":"booked","booked_until":"2026-11-02","bookings":[{"booking_id":"b1"}]}
		]}`,
	})

	code, stdout, _ := run(t, "", "-admin", srv.URL, "list")

	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Garden View")
	assert.Contains(t, stdout, "2026-11-02")
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 3)
}

func TestCLI_ListEmpty(t *testing.T) {
	srv := newFakeServer(t, map[string]string{"GET /admin/rooms": `{"success":true,"data":[]}`})

	code, stdout, _ := run(t, "", "-admin", srv.URL, "list")

	require.Equal(t, 0, code)
	assert.Equal(t, "No rooms found.\n", stdout)
}

func TestCLI_AddSendsOnlyGivenFields(t *testing.T) {
	srv := newFakeServer(t, map[string]string{
		"POST /admin/rooms": `{"success":true,"data":{"status":"success","room_id":7}}`,
	})

	code, stdout, stderr := run(t, "", "-admin", srv.URL, "add",
		"-name", "Lotus", "-price", "500000", "-capacity", "2", "-amenities", "wifi, ac,,")

	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Room 7 created.\n", stdout)

	req := srv.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.NotEmpty(t, req.IdempotencyKey)
	assert.Equal(t, "Lotus", req.Body["name"])
	assert.EqualValues(t, 500000, req.Body["price"])
	assert.EqualValues(t, 2, req.Body["capacity"])
	assert.Equal(t, []any{"wifi", "ac"}, req.Body["amenities"])
	assert.NotContains(t, req.Body, "description")
	assert.NotContains(t, req.Body, "status")
}

func TestCLI_AddReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"error":"Missing required fields: price, capacity","code":"VALIDATION_ERROR"}`))
	}))
	defer srv.Close()

	code, _, stderr := run(t, "", "-admin", srv.URL, "add", "-name", "Lotus")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Missing required fields: price, capacity")
}

func TestCLI_Update(t *testing.T) {
	srv := newFakeServer(t, map[string]string{
		"PUT /admin/rooms/3": `{"success":true,"data":{"status":"success","room":{"room_id":3,"name":"Lotus","status":"maintenance"}}}`,
	})

	code, stdout, stderr := run(t, "", "-admin", srv.URL, "update", "-id", "3", "-status", "maintenance")

	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Room 3 updated (status: maintenance).\n", stdout)
	assert.Equal(t, map[string]any{"status": "maintenance"}, srv.last(t).Body)
}

func TestCLI_UpdateValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing id", args: []string{"update", "-name", "x"}, wantErr: "-id is required"},
		{name: "no fields", args: []string{"update", "-id", "3"}, wantErr: "nothing to update"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer(t, nil)
			code, _, stderr := run(t, "", append([]string{"-admin", srv.URL}, tt.args...)...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.wantErr)
			assert.Zero(t, srv.count())
		})
	}
}

func TestCLI_DeleteAsksForConfirmation(t *testing.T) {
	tests := []struct {
		name       string
		stdin      string
		args       []string
		wantOut    string
		wantCalled bool
	}{
		{name: "declined", stdin: "n\n", args: []string{"delete", "-id", "4"}, wantOut: "Aborted.", wantCalled: false},
		{name: "empty answer", stdin: "", args: []string{"delete", "-id", "4"}, wantOut: "Aborted.", wantCalled: false},
		{name: "confirmed", stdin: "yes\n", args: []string{"delete", "-id", "4"}, wantOut: "Room 4 deleted.", wantCalled: true},
		{name: "skip prompt", stdin: "", args: []string{"delete", "-id", "4", "-yes"}, wantOut: "Room 4 deleted.", wantCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer(t, map[string]string{
				"DELETE /admin/rooms/4": `{"success":true,"data":{"status":"success","deleted":true}}`,
			})

			code, stdout, _ := run(t, tt.stdin, append([]string{"-admin", srv.URL}, tt.args...)...)

			require.Equal(t, 0, code)
			assert.Contains(t, stdout, tt.wantOut)
			assert.Equal(t, tt.wantCalled, srv.count() == 1)
		})
	}
}

func TestCLI_Stats(t *testing.T) {
	srv := newFakeServer(t, map[string]string{
		"GET /admin/rooms/stats": `{"success":true,"data":{"total":5,"available":3,"booked":1,"maintenance":1}}`,
	})

	code, stdout, _ := run(t, "", "-admin", srv.URL, "stats")

	require.Equal(t, 0, code)
	assert.Regexp(t, `Total\s+5`, stdout)
	assert.Regexp(t, `Available\s+3`, stdout)
	assert.Regexp(t, `Maintenance\s+1`, stdout)
}

// ────────────────────────────────────────────────────────────────
// Sync
// ────────────────────────────────────────────────────────────────

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rooms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const seedYAML = `
- room_id: 1
  name: Garden View
  price: "450000"
  capacity: 2
  amenities: [wifi, breakfast]
- name: Rice Field
  price: 600000
  capacity: 4
`

func TestCLI_SyncToAdmin(t *testing.T) {
	srv := newFakeServer(t, map[string]string{
		"POST /admin/rooms/sync": `{"success":true,"data":{"status":"success","synced":2,"total":2}}`,
	})

	code, stdout, stderr := run(t, "", "-admin", srv.URL, "sync", "-file", writeSeed(t, seedYAML))

	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Synchronized 2 of 2 rooms.\n", stdout)

	req := srv.last(t)
	require.Len(t, req.List, 2)
	assert.EqualValues(t, 1, req.List[0]["room_id"])
	assert.EqualValues(t, 450000, req.List[0]["price"])
	assert.Equal(t, "Rice Field", req.List[1]["name"])
	assert.NotContains(t, req.List[1], "room_id")
}

func TestCLI_SyncToLegacy(t *testing.T) {
	srv := newFakeServer(t, map[string]string{
		"POST /rooms/sync": `{"status":"success","synced":2,"total":2}`,
	})

	code, stdout, stderr := run(t, "", "-legacy", srv.URL, "sync", "-target", "legacy", "-file", writeSeed(t, seedYAML))

	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Synchronized 2 of 2 rooms.\n", stdout)
	assert.Equal(t, "/rooms/sync", srv.last(t).Path)
}

func TestCLI_SyncFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    func(t *testing.T) []string
		wantErr string
	}{
		{name: "no file flag", args: func(t *testing.T) []string { return []string{"sync"} }, wantErr: "-file is required"},
		{name: "empty list", args: func(t *testing.T) []string { return []string{"sync", "-file", writeSeed(t, "[]")} }, wantErr: "contains no rooms"},
		{name: "bad price", args: func(t *testing.T) []string { return []string{"sync", "-file", writeSeed(t, "- name: x\n  price: cheap\n")} }, wantErr: "not numeric"},
		{name: "unknown target", args: func(t *testing.T) []string {
			return []string{"sync", "-target", "ftp", "-file", writeSeed(t, seedYAML)}
		}, wantErr: `unknown target "ftp"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(t, "", tt.args(t)...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

// ────────────────────────────────────────────────────────────────
// Watch
// ────────────────────────────────────────────────────────────────

func TestCLI_WatchOncePrintsAvailableRooms(t *testing.T) {
	srv := newFakeServer(t, map[string]string{
		"GET /rooms": `{"success":true,"data":[
			{"room_id":2,"name":"Rice Field","price":600000,"capacity":4,"status":"booked"},
			{"room_id":1,"name":"Garden View","price":450000,"capacity":2,"status":"available"}
		]}`,
	})

	code, stdout, stderr := run(t, "", "-homepage", srv.URL, "watch", "-once")

	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "1 of 2 rooms available")
	assert.Less(t, strings.Index(stdout, "Garden View"), strings.Index(stdout, "Rice Field"))
}

func TestCLI_WatchOnceReportsFetchError(t *testing.T) {
	srv := newFakeServer(t, nil)

	code, _, stderr := run(t, "", "-homepage", srv.URL, "watch", "-once")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Route not found")
}

func TestCLI_WatchUnknownSource(t *testing.T) {
	code, _, stderr := run(t, "", "watch", "-source", "carrier-pigeon")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown source "carrier-pigeon"`)
}

func TestCLI_WatchStopsOnCancel(t *testing.T) {
	srv := newFakeServer(t, map[string]string{"GET /rooms": `{"success":true,"data":[]}`})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := cli(ctx, []string{"-homepage", srv.URL, "watch", "-interval", "1h"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
}
