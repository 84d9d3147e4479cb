package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// HTTPTestHelper drives a gin router with in-memory requests
type HTTPTestHelper struct {
	t      *testing.T
	router http.Handler
}

// NewHTTPTestHelper wraps router; gin is switched to test mode
func NewHTTPTestHelper(t *testing.T, router http.Handler) *HTTPTestHelper {
	gin.SetMode(gin.TestMode)
	return &HTTPTestHelper{t: t, router: router}
}

// Do serves req and returns the recorded response
func (h *HTTPTestHelper) Do(req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, req)
	return recorder
}

// NewJSONRequest builds a request with payload marshalled as the body
func (h *HTTPTestHelper) NewJSONRequest(method, target string, payload interface{}) *http.Request {
	body, err := json.Marshal(payload)
	require.NoError(h.t, err, "Failed to marshal JSON payload")

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// PostJSON sends payload to target
func (h *HTTPTestHelper) PostJSON(target string, payload interface{}) *httptest.ResponseRecorder {
	return h.Do(h.NewJSONRequest(http.MethodPost, target, payload))
}

// PutJSON replaces the resource at target with payload
func (h *HTTPTestHelper) PutJSON(target string, payload interface{}) *httptest.ResponseRecorder {
	return h.Do(h.NewJSONRequest(http.MethodPut, target, payload))
}

// Get performs a plain GET, the way a browser following a link would
func (h *HTTPTestHelper) Get(target string) *httptest.ResponseRecorder {
	return h.Do(httptest.NewRequest(http.MethodGet, target, nil))
}

// GetJSON performs a GET that asks for JSON
func (h *HTTPTestHelper) GetJSON(target string) *httptest.ResponseRecorder {
	return h.GetWithHeaders(target, map[string]string{"Accept": "application/json"})
}

// GetWithHeaders performs a GET with custom headers
func (h *HTTPTestHelper) GetWithHeaders(target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return h.Do(req)
}

// AssertJSONResponse checks status and content type, then decodes into target
func (h *HTTPTestHelper) AssertJSONResponse(recorder *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	require.Equal(h.t, expectedStatus, recorder.Code, "Unexpected status code: %s", recorder.Body.String())
	require.Equal(h.t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))
	require.NoError(h.t, json.Unmarshal(recorder.Body.Bytes(), target), "Failed to unmarshal JSON response")
}

// AssertHTMLResponse checks status and content type and returns the page
func (h *HTTPTestHelper) AssertHTMLResponse(recorder *httptest.ResponseRecorder, expectedStatus int) string {
	require.Equal(h.t, expectedStatus, recorder.Code, "Unexpected status code")
	require.Equal(h.t, "text/html; charset=utf-8", recorder.Header().Get("Content-Type"))
	return recorder.Body.String()
}

// AssertErrorResponse checks the status and that the "error" field mentions substring
func (h *HTTPTestHelper) AssertErrorResponse(recorder *httptest.ResponseRecorder, expectedStatus int, substring string) {
	require.Equal(h.t, expectedStatus, recorder.Code, "Unexpected status code: %s", recorder.Body.String())

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(h.t, json.Unmarshal(recorder.Body.Bytes(), &body), "Failed to unmarshal error response")
	require.Contains(h.t, body.Error, substring)
}

// AssertRedirect checks for a 302 to exactly location
func (h *HTTPTestHelper) AssertRedirect(recorder *httptest.ResponseRecorder, location string) {
	require.Equal(h.t, http.StatusFound, recorder.Code, "Expected a redirect")
	require.Equal(h.t, location, recorder.Header().Get("Location"))
}

// MockHTTPServer provides a mock HTTP server for testing external API calls
type MockHTTPServer struct {
	server   *httptest.Server
	handlers map[string]http.HandlerFunc
}

// NewMockHTTPServer creates a new mock HTTP server
func NewMockHTTPServer() *MockHTTPServer {
	mock := &MockHTTPServer{
		handlers: make(map[string]http.HandlerFunc),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", mock.routeRequest)

	mock.server = httptest.NewServer(mux)
	return mock
}

// URL returns the mock server URL
func (m *MockHTTPServer) URL() string {
	return m.server.URL
}

// Close closes the mock server
func (m *MockHTTPServer) Close() {
	m.server.Close()
}

// On registers a handler for a specific path
func (m *MockHTTPServer) On(path string, handler http.HandlerFunc) {
	m.handlers[path] = handler
}

// routeRequest routes requests to registered handlers
func (m *MockHTTPServer) routeRequest(w http.ResponseWriter, r *http.Request) {
	if handler, exists := m.handlers[r.URL.Path]; exists {
		handler(w, r)
		return
	}

	// Default handler returns 404
	http.NotFound(w, r)
}

// RespondJSON writes v as a JSON body with the given status
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// OEmbedResponse creates a mock Spotify oEmbed response
func OEmbedResponse(title, thumbnailURL string) map[string]interface{} {
	return map[string]interface{}{
		"html":             "<iframe></iframe>",
		"width":            456,
		"height":           152,
		"version":          "1.0",
		"provider_name":    "Spotify",
		"provider_url":     "https://spotify.com",
		"type":             "rich",
		"title":            title,
		"thumbnail_url":    thumbnailURL,
		"thumbnail_width":  300,
		"thumbnail_height": 300,
	}
}

// SpotifyTokenResponse creates a mock Spotify token response
func SpotifyTokenResponse() map[string]interface{} {
	return map[string]interface{}{
		"access_token": "mock-access-token",
		"token_type":   "Bearer",
		"expires_in":   3600,
	}
}

// SpotifyTrackResponse creates a mock Spotify Web API track response
func SpotifyTrackResponse(trackID, title, artist string) map[string]interface{} {
	return map[string]interface{}{
		"id":   trackID,
		"name": title,
		"artists": []map[string]interface{}{
			{
				"name": artist,
			},
		},
		"album": map[string]interface{}{
			"name": "Test Album",
			"images": []map[string]interface{}{
				{
					"url":    "https://i.scdn.co/image/large",
					"height": 1000,
					"width":  1000,
				},
				{
					"url":    "https://i.scdn.co/image/medium",
					"height": 640,
					"width":  640,
				},
			},
		},
		"external_urls": map[string]string{
			"spotify": "https://open.spotify.com/track/" + trackID,
		},
	}
}
