//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"khietan/pkg/client"
)

const DefaultHealthCheckTimeout = 30 * time.Second

// TestEnv points the suite at running admin, homepage and legacy binaries.
type TestEnv struct {
	MongoURI     string
	DatabaseName string
	AdminURL     string
	HomepageURL  string
	LegacyURL    string
}

func NewTestEnv() *TestEnv {
	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
		AdminURL:     getEnv("TEST_ADMIN_URL", fmt.Sprintf("http://localhost:%s", getEnv("TEST_ADMIN_PORT", "8080"))),
		HomepageURL:  getEnv("TEST_HOMEPAGE_URL", fmt.Sprintf("http://localhost:%s", getEnv("TEST_HOMEPAGE_PORT", "8081"))),
		LegacyURL:    getEnv("TEST_LEGACY_URL", fmt.Sprintf("http://localhost:%s", getEnv("TEST_LEGACY_PORT", "8082"))),
	}
}

// Setup empties the rooms collection and waits for the admin and homepage APIs.
func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *client.AdminClient, *client.HomepageClient) {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanCollection(t, RoomsCollection)

	admin := client.NewAdminClient(e.AdminURL)
	homepage := client.NewHomepageClient(e.HomepageURL)
	WaitForHealthy(t, admin.HTTP())
	WaitForHealthy(t, homepage.HTTP())

	return mongo, admin, homepage
}

// SetupLegacy waits for the legacy API. Its table is emptied through the API itself,
// since the backing database may be any of the supported drivers.
func (e *TestEnv) SetupLegacy(t *testing.T) *client.LegacyClient {
	t.Helper()

	legacy := client.NewLegacyClient(e.LegacyURL)
	WaitForHealthy(t, legacy.HTTP())

	ctx := context.Background()
	rooms, err := legacy.ListRooms(ctx)
	if err != nil {
		t.Fatalf("failed to list legacy rooms: %v", err)
	}
	for _, room := range rooms {
		if _, err := legacy.DeleteRoom(ctx, room.ID); err != nil {
			t.Fatalf("failed to delete legacy room %d: %v", room.ID, err)
		}
	}
	return legacy
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanCollection(t, RoomsCollection)
		mongo.Close(t)
	}
}

func WaitForHealthy(t *testing.T, c *client.HttpClient) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), DefaultHealthCheckTimeout)
	defer cancel()

	if err := c.WaitForHealthy(ctx, DefaultHealthCheckTimeout); err != nil {
		t.Fatalf("%s is not healthy: %v", c.BaseURL, err)
	}
}

// AssertStatusCode fails the test unless err is a StatusError with the given code.
func AssertStatusCode(t *testing.T, err error, want int) *client.StatusError {
	t.Helper()

	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected HTTP %d (%s), got error %v", want, http.StatusText(want), err)
	}
	if statusErr.StatusCode != want {
		t.Fatalf("expected HTTP %d, got %d: %s", want, statusErr.StatusCode, statusErr.Message)
	}
	return statusErr
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
