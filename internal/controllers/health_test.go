package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthController_Health(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		ctrl := NewHealthController("kallax", nil, testLogger())

		w := httptest.NewRecorder()
		ctrl.Health(w, httptest.NewRequest("GET", "/health", nil))

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body healthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "kallax", body.Service)
		assert.True(t, body.Ready)
	})

	t.Run("not ready", func(t *testing.T) {
		ctrl := NewHealthController("jarvfjallet", func() bool { return false }, testLogger())

		w := httptest.NewRecorder()
		ctrl.Health(w, httptest.NewRequest("GET", "/health", nil))

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body healthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "starting", body.Status)
		assert.False(t, body.Ready)
	})
}
