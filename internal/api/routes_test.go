package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cankoe/visit-recorder/internal/config"
	"github.com/cankoe/visit-recorder/internal/models"
	"github.com/cankoe/visit-recorder/internal/session"
	"github.com/cankoe/visit-recorder/internal/visits"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubHost struct{}

func (stubHost) ResolveHost(context.Context) (string, error) { return "web-1/10.1.2.3", nil }

type brokenStore struct{}

func (brokenStore) Insert(context.Context, models.Visit) error {
	return errors.New("no reachable servers")
}

func (brokenStore) ReadAll(context.Context) ([]models.Visit, error) {
	return nil, errors.New("no reachable servers")
}

type brokenSessions struct{}

func (brokenSessions) GetOrCreate(http.ResponseWriter, *http.Request) (string, error) {
	return "", errors.New("redis: connection refused")
}

func strPtr(s string) *string { return &s }

func newTestRouter(store visits.Store, sessions SessionProvider, build config.BuildInfo) *gin.Engine {
	r := gin.New()
	RegisterRoutes(r, Dependencies{
		Recorder: visits.NewRecorder(store, stubHost{}),
		Lister:   visits.NewLister(store),
		Sessions: sessions,
		Build:    build,
	})
	return r
}

func defaultRouter() *gin.Engine {
	return newTestRouter(visits.NewMemoryStore(),
		session.NewManager(session.NewMemoryStore(), "JSESSIONID", 30*time.Minute),
		config.BuildInfo{})
}

func get(t *testing.T, r http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// visitJSON mirrors the wire shape of a visit.
type visitJSON struct {
	Host          string  `json:"host"`
	SessionID     string  `json:"sessionID"`
	CallerIP      string  `json:"callerIP"`
	OriginatingIP *string `json:"originatingIP"`
	AccessTime    *string `json:"accessTime"`
}

func TestCaptureWithForwardedHeader(t *testing.T) {
	r := defaultRouter()

	rec := get(t, r, "/", http.Header{"X-FORWARDED-FOR": {"203.0.113.1"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body visitJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.OriginatingIP)
	assert.Equal(t, "203.0.113.1", *body.OriginatingIP)
	assert.Equal(t, "192.0.2.1", body.CallerIP)
	assert.Equal(t, "web-1/10.1.2.3", body.Host)
	assert.NotEmpty(t, body.SessionID)
	assert.NotNil(t, body.AccessTime)
}

func TestCaptureUsesFirstRawForwardedValue(t *testing.T) {
	r := defaultRouter()

	rec := get(t, r, "/", http.Header{"X-Forwarded-For": {"203.0.113.1, 198.51.100.7", "10.0.0.1"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var body visitJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.OriginatingIP)
	assert.Equal(t, "203.0.113.1, 198.51.100.7", *body.OriginatingIP)
}

func TestCaptureWithoutForwardedHeader(t *testing.T) {
	r := defaultRouter()

	rec := get(t, r, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Contains(t, raw, "originatingIP")
	assert.Nil(t, raw["originatingIP"])
	assert.NotEmpty(t, raw["callerIP"])
}

func TestCaptureSetsSessionCookie(t *testing.T) {
	r := defaultRouter()

	rec := get(t, r, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body visitJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, body.SessionID, cookies[0].Value)

	again := get(t, r, "/", http.Header{"Cookie": {"JSESSIONID=" + body.SessionID}})
	var second visitJSON
	require.NoError(t, json.Unmarshal(again.Body.Bytes(), &second))
	assert.Equal(t, body.SessionID, second.SessionID)
}

func TestTwoCapturesThenListAll(t *testing.T) {
	r := defaultRouter()

	require.Equal(t, http.StatusOK, get(t, r, "/", nil).Code)
	time.Sleep(2 * time.Millisecond)
	require.Equal(t, http.StatusOK, get(t, r, "/", nil).Code)

	rec := get(t, r, "/all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body []visitJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	for _, v := range body {
		assert.NotEmpty(t, v.SessionID)
		assert.NotNil(t, v.AccessTime)
	}
}

func TestCaptureRoundTripsThroughList(t *testing.T) {
	r := defaultRouter()

	captured := get(t, r, "/", http.Header{"X-Forwarded-For": {"10.0.0.1"}})
	require.Equal(t, http.StatusOK, captured.Code)

	listed := get(t, r, "/all", nil)
	require.Equal(t, http.StatusOK, listed.Code)

	var one visitJSON
	require.NoError(t, json.Unmarshal(captured.Body.Bytes(), &one))
	var all []visitJSON
	require.NoError(t, json.Unmarshal(listed.Body.Bytes(), &all))
	require.Len(t, all, 1)
	assert.Equal(t, one, all[0])
}

func TestListAllEmpty(t *testing.T) {
	r := defaultRouter()

	rec := get(t, r, "/all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestStoreFailuresReturnServerError(t *testing.T) {
	r := newTestRouter(brokenStore{},
		session.NewManager(session.NewMemoryStore(), "JSESSIONID", time.Minute),
		config.BuildInfo{})

	tests := []struct {
		path string
		want string
	}{
		{path: "/", want: `{"error":{"code":"database_error","message":"Failed to store visit"}}`},
		{path: "/all", want: `{"error":{"code":"database_error","message":"Failed to fetch visits"}}`},
	}

	for _, tt := range tests {
		rec := get(t, r, tt.path, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, tt.path)
		assert.JSONEq(t, tt.want, rec.Body.String(), tt.path)
	}
}

func TestSessionFailureReturnsServerError(t *testing.T) {
	store := visits.NewMemoryStore()
	r := newTestRouter(store, brokenSessions{}, config.BuildInfo{})

	rec := get(t, r, "/", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	stored, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestHealth(t *testing.T) {
	rec := get(t, defaultRouter(), "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name  string
		build config.BuildInfo
		want  string
	}{
		{
			name:  "both set",
			build: config.BuildInfo{BuildID: strPtr("42"), CommitID: strPtr("abc")},
			want:  "Version: Build ID - 42\tCommit ID - abc",
		},
		{
			name:  "unset",
			build: config.BuildInfo{},
			want:  "Version: Build ID - null\tCommit ID - null",
		},
		{
			name:  "empty build id",
			build: config.BuildInfo{BuildID: strPtr("")},
			want:  "Version: Build ID - \tCommit ID - null",
		},
		{
			name:  "commit only",
			build: config.BuildInfo{CommitID: strPtr("%s")},
			want:  "Version: Build ID - null\tCommit ID - %s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(visits.NewMemoryStore(),
				session.NewManager(session.NewMemoryStore(), "JSESSIONID", time.Minute),
				tt.build)

			rec := get(t, r, "/version", nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}
