package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"cadenza/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSettingsHandler()
	r := gin.New()
	r.GET("/api/settings", h.GetSettings)
	r.POST("/api/settings", h.UpdateSettings)
	return r
}

func putSettings(t *testing.T, r *gin.Engine, settings config.UserSettings) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(settings)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/settings", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateAndGetSettings(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	r := newSettingsRouter()

	dir := filepath.Join(home, "Tunes")
	w := putSettings(t, r, config.UserSettings{DownloadLocation: dir, Threads: 8})
	require.Equal(t, http.StatusOK, w.Code)

	// The location is created as part of validation.
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got config.UserSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, dir, got.DownloadLocation)
	assert.Equal(t, 8, got.Threads)
}

func TestUpdateSettingsRejectsBadInput(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	r := newSettingsRouter()

	tests := []struct {
		name     string
		settings config.UserSettings
	}{
		{"empty location", config.UserSettings{}},
		{"negative threads", config.UserSettings{DownloadLocation: home, Threads: -1}},
		{"too many threads", config.UserSettings{DownloadLocation: home, Threads: maxThreads + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := putSettings(t, r, tt.settings)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestEnsureWritableDirRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.Error(t, ensureWritableDir(file))
}
