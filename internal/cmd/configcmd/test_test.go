package configcmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/wikimacro/internal/config"
)

func testConfig(t *testing.T, serverURL string) *config.Config {
	return &config.Config{
		URL:      serverURL,
		Email:    "test@example.com",
		APIToken: "test-token",
		Storage:  config.Storage{AppPath: t.TempDir()},
	}
}

func runTestAgainst(t *testing.T, handler http.HandlerFunc) (string, error) {
	server := httptest.NewServer(handler)
	defer server.Close()

	var out bytes.Buffer
	err := runTest(context.Background(), true, testConfig(t, server.URL), nil, &out)
	return out.String(), err
}

func TestRunTest_Success(t *testing.T) {
	out, err := runTestAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/wiki/pages", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"results": []}`))
	})
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Backend reachable")
	assert.Contains(t, out, "✓ Attachment storage found")
	assert.Contains(t, out, "Authenticated as: test@example.com")
}

func TestRunTest_AuthFailure(t *testing.T) {
	_, err := runTestAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "Unauthorized"}`))
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
}

func TestRunTest_Forbidden(t *testing.T) {
	_, err := runTestAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestRunTest_ServerError(t *testing.T) {
	_, err := runTestAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
}

type fakeBackend struct {
	pingErr error
}

func (fakeBackend) Close() {}

func (b fakeBackend) Ping(context.Context) error { return b.pingErr }

func TestRunTest_DatabaseDown(t *testing.T) {
	cfg := &config.Config{Backend: "postgres", DatabaseURL: "postgres://db/hub", Storage: config.Storage{AppPath: t.TempDir()}}

	var out bytes.Buffer
	err := runTest(context.Background(), true, cfg, fakeBackend{pingErr: errors.New("dial tcp: connection refused")}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection failed")
	assert.Contains(t, out.String(), "Testing connection to the database...")
}

func TestRunTest_MissingStorageWarns(t *testing.T) {
	cfg := &config.Config{Backend: "postgres", DatabaseURL: "postgres://db/hub", Storage: config.Storage{AppPath: "/nonexistent/wikimacro"}}

	var out bytes.Buffer
	err := runTest(context.Background(), true, cfg, fakeBackend{}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "! Attachment storage /nonexistent/wikimacro is not a directory")
	assert.NotContains(t, out.String(), "Authenticated as")
}
