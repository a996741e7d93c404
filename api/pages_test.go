package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/wiki/pages/7", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"id": 7,
			"title": "Photos",
			"pagename": "Photos",
			"scope": "groups/team",
			"created": "2024-01-02 03:04:05",
			"_links": {"webui": "/groups/team/wiki/Photos"}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token")
	page, err := client.GetPage(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), page.ID)
	assert.Equal(t, "Photos", page.Title)
	assert.Equal(t, "groups/team", page.Scope)
	assert.Equal(t, "/groups/team/wiki/Photos", page.Links.WebUI)
	assert.Equal(t, 2024, page.Created.Year())
}

func TestClient_GetPage_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Page not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token")
	_, err := client.GetPage(context.Background(), 404)

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestClient_GetPageByTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/wiki/pages", r.URL.Path)
		assert.Equal(t, "Main Page", r.URL.Query().Get("title"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"results": [{"id": 3, "title": "Main Page", "pagename": "MainPage"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token")
	page, err := client.GetPageByTitle(context.Background(), "Main Page")

	require.NoError(t, err)
	assert.Equal(t, int64(3), page.ID)
	assert.Equal(t, "MainPage", page.PageName)
}

func TestClient_GetPageByTitle_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token")
	_, err := client.GetPageByTitle(context.Background(), "Nope")

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), `"Nope"`)
}

func TestClient_GetPage_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token")
	_, err := client.GetPage(context.Background(), 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse page response")
}
