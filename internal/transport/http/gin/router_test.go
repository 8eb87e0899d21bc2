package httpgin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRFC3339(t *testing.T) {
	ts, err := parseRFC3339("2026-10-01T08:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())
	assert.Equal(t, 8, ts.Hour())

	_, err = parseRFC3339("2026-10-01 08:00")
	require.Error(t, err)
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 100, parseIntDefault("", 100))
	assert.Equal(t, 25, parseIntDefault("25", 100))
	assert.Equal(t, 100, parseIntDefault("abc", 100))
}

func TestCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		header     string
		wantID     int64
		wantOK     bool
		wantStatus int
	}{
		{name: "valid", header: "42", wantID: 42, wantOK: true, wantStatus: http.StatusOK},
		{name: "missing", header: "", wantOK: false, wantStatus: http.StatusUnauthorized},
		{name: "garbage", header: "abc", wantOK: false, wantStatus: http.StatusUnauthorized},
		{name: "non-positive", header: "0", wantOK: false, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/orders", nil)
			if tt.header != "" {
				c.Request.Header.Set("X-User-ID", tt.header)
			}

			id, ok := currentUserID(c)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, id)
				return
			}
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// Gin's response writer defers WriteHeader until the body is written, so the
// writer has to be driven through an engine for the recorder to observe the
// status code.
func TestWriteCachedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type payload struct {
		Free int `json:"free"`
	}

	free := 3
	r := gin.New()
	r.GET("/journeys/1/availability", func(c *gin.Context) {
		writeCachedJSON(c, http.StatusOK, payload{Free: free}, "public, max-age=15", true)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/journeys/1/availability", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"free":3}`, w.Body.String())
	assert.Equal(t, "public, max-age=15", w.Header().Get("Cache-Control"))

	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)
	assert.Equal(t, "W/", tag[:2])

	// Same body with a matching If-None-Match collapses to 304.
	req := httptest.NewRequest(http.MethodGet, "/journeys/1/availability", nil)
	req.Header.Set("If-None-Match", tag)

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	assert.Equal(t, http.StatusNotModified, w2.Code)
	assert.Empty(t, w2.Body.String())

	// A changed body gets a fresh tag and a full response.
	free = 2
	req3 := httptest.NewRequest(http.MethodGet, "/journeys/1/availability", nil)
	req3.Header.Set("If-None-Match", tag)

	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, req3)

	assert.Equal(t, http.StatusOK, w3.Code)
	assert.NotEqual(t, tag, w3.Header().Get("ETag"))
	assert.JSONEq(t, `{"free":2}`, w3.Body.String())
}
