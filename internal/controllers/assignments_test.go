package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2mOlaf/gamer-gambit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAssignmentStore struct {
	mock.Mock
}

func (m *MockAssignmentStore) Stats() (models.GameStats, error) {
	args := m.Called()
	return args.Get(0).(models.GameStats), args.Error(1)
}

func (m *MockAssignmentStore) UserAssignments(userID string) ([]models.Assignment, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Assignment), args.Error(1)
}

func setupAssignments() (*AssignmentController, *MockAssignmentStore) {
	m := &MockAssignmentStore{}
	return NewAssignmentController(m, testLogger()), m
}

func TestAssignmentController_Metrics(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl, m := setupAssignments()
		m.On("Stats").Return(models.GameStats{Total: 4, Assigned: 3, Unassigned: 1, Completed: 2}, nil)

		w := httptest.NewRecorder()
		ctrl.Metrics(w, httptest.NewRequest("GET", "/metrics", nil))

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body statsResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, int64(4), body.Total)
		assert.InDelta(t, 25.0, body.AvailablePct, 0.001)
		assert.InDelta(t, 75.0, body.AssignedPct, 0.001)
		assert.InDelta(t, 50.0, body.CompletedPct, 0.001)
	})

	t.Run("error", func(t *testing.T) {
		ctrl, m := setupAssignments()
		m.On("Stats").Return(models.GameStats{}, errors.New("db closed"))

		w := httptest.NewRecorder()
		ctrl.Metrics(w, httptest.NewRequest("GET", "/metrics", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
	})
}

func TestAssignmentController_ByUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl, m := setupAssignments()
		m.On("UserAssignments", "100").Return([]models.Assignment{{ID: 1, UserID: "100", GameID: 7, Status: models.StatusAssigned}}, nil)

		req := withURLParam(httptest.NewRequest("GET", "/api/assignments/100", nil), "userID", "100")
		w := httptest.NewRecorder()

		ctrl.ByUser(w, req)

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body []models.Assignment
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, int64(7), body[0].GameID)
	})

	t.Run("empty", func(t *testing.T) {
		ctrl, m := setupAssignments()
		m.On("UserAssignments", "200").Return(nil, nil)

		req := withURLParam(httptest.NewRequest("GET", "/api/assignments/200", nil), "userID", "200")
		w := httptest.NewRecorder()

		ctrl.ByUser(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("missing id", func(t *testing.T) {
		ctrl, m := setupAssignments()

		w := httptest.NewRecorder()
		ctrl.ByUser(w, httptest.NewRequest("GET", "/api/assignments/", nil))

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		m.AssertNotCalled(t, "UserAssignments", mock.Anything)
	})

	t.Run("error", func(t *testing.T) {
		ctrl, m := setupAssignments()
		m.On("UserAssignments", "100").Return(nil, errors.New("db closed"))

		req := withURLParam(httptest.NewRequest("GET", "/api/assignments/100", nil), "userID", "100")
		w := httptest.NewRecorder()

		ctrl.ByUser(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
	})
}
