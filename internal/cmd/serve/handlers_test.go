package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/wikimacro/pkg/macro"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error { return p.err }

func newTestService(health Pinger) *Service {
	env := &macro.Env{Router: macro.BaseRouter{Base: "https://hub.example.org"}}
	return NewService("127.0.0.1:0", env, health)
}

func doRequest(t *testing.T, service *Service, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	request, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	service.Handler().ServeHTTP(recorder, request)
	return recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	return resp
}

func TestRender(t *testing.T) {
	testCases := []struct {
		name          string
		body          string
		checkResponse func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			body: `{"text": "One[[Footnote(first)]]\n[[Footnote]]", "page": {"option": "com_wiki", "pageId": 7}}`,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var resp renderResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				require.Contains(t, resp.HTML, `<sup id="fndef-1"`)
				require.Contains(t, resp.HTML, `<ol class="footnotes">`)
				require.Empty(t, resp.Warnings)
				require.Empty(t, resp.Markdown)
			},
		},
		{
			name: "UnknownMacroWarning",
			body: `{"text": "[[Bogus(1)]]"}`,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var resp renderResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				require.Equal(t, "[[Bogus(1)]]", resp.HTML)
				require.Equal(t, []string{"unknown macro: Bogus"}, resp.Warnings)
			},
		},
		{
			name: "Markdown",
			body: `{"text": "<p>Hello</p>", "markdown": true}`,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var resp renderResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				require.Equal(t, "Hello", resp.Markdown)
			},
		},
		{
			name: "MissingText",
			body: `{"page": {"pageId": 7}}`,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
				require.Contains(t, decodeError(t, recorder).Error, "text")
			},
		},
		{
			name: "InvalidJSON",
			body: `{"text": `,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service := newTestService(nil)
			recorder := doRequest(t, service, http.MethodPost, RenderURL, tc.body)
			tc.checkResponse(t, recorder)
		})
	}
}

func TestParseImage(t *testing.T) {
	service := newTestService(nil)

	recorder := doRequest(t, service, http.MethodPost, ImageParseURL, `{"args": "photo.jpg, 120px, right, desc=\"Hi\""}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp macro.ImageExplanation
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Equal(t, "photo.jpg", resp.File)
	require.Equal(t, "120px", resp.Model.Size)
	require.Equal(t, "right", resp.Model.Alignment)
	require.NotNil(t, resp.Model.Caption)
	require.Equal(t, "Hi", *resp.Model.Caption)
	require.NotEmpty(t, resp.Tokens)

	recorder = doRequest(t, service, http.MethodPost, ImageParseURL, `{}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Contains(t, decodeError(t, recorder).Error, "args")
}

func TestListMacros(t *testing.T) {
	service := newTestService(nil)

	recorder := doRequest(t, service, http.MethodGet, MacrosURL, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp []macroResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp, 4)
	require.Equal(t, "fileindex", resp[0].Name)
	require.Equal(t, "Image", resp[2].Title)
}

func TestHealthz(t *testing.T) {
	testCases := []struct {
		name   string
		health Pinger
		status int
	}{
		{"NoBackend", nil, http.StatusOK},
		{"BackendUp", fakePinger{}, http.StatusOK},
		{"BackendDown", fakePinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := doRequest(t, newTestService(tc.health), http.MethodGet, HealthURL, "")
			require.Equal(t, tc.status, recorder.Code)
			if tc.status != http.StatusOK {
				require.Contains(t, decodeError(t, recorder).Error, "connection refused")
				return
			}
			require.Contains(t, recorder.Body.String(), `"version":"dev"`)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	recorder := doRequest(t, newTestService(nil), http.MethodGet, "/api/v1/nope", "")
	require.Equal(t, http.StatusNotFound, recorder.Code)
}
