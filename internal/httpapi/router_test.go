package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/domain"
	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStats struct {
	mock.Mock
}

func (m *mockStats) FetchAnnualStats(ctx context.Context, username string) (domain.AnnualStats, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(domain.AnnualStats), args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealth(t *testing.T) {
	router := NewRouter(&Handler{Stats: new(mockStats), Log: zap.NewNop()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestUserStats(t *testing.T) {
	stats := domain.AnnualStats{TotalCommits: 42, Additions: 15, Deletions: 3, CommitAdditions: 100}

	testCases := []struct {
		name         string
		path         string
		arrange      func(m *mockStats)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "happy path",
			path: "/v1/users/octocat/stats",
			arrange: func(m *mockStats) {
				m.On("FetchAnnualStats", mock.Anything, "octocat").Return(stats, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "invalid username",
			path:         "/v1/users/-bad-/stats",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "INVALID_USERNAME",
		},
		{
			name: "unavailable",
			path: "/v1/users/ghost/stats",
			arrange: func(m *mockStats) {
				m.On("FetchAnnualStats", mock.Anything, "ghost").
					Return(domain.AnnualStats{}, fmt.Errorf("%w: user not found", usecase.ErrUnavailable))
			},
			expectedCode: http.StatusBadGateway,
			expectedErr:  "UNAVAILABLE",
		},
		{
			name: "unexpected error",
			path: "/v1/users/octocat/stats",
			arrange: func(m *mockStats) {
				m.On("FetchAnnualStats", mock.Anything, "octocat").Return(domain.AnnualStats{}, errors.New("boom"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "INTERNAL_ERROR",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockStats)
			if tc.arrange != nil {
				tc.arrange(fetcher)
			}
			router := NewRouter(&Handler{Stats: fetcher, Log: zap.NewNop()})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.expectedCode, w.Code)
			if tc.expectedErr != "" {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tc.expectedErr, resp.Error.Code)
			} else {
				var got domain.AnnualStats
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, stats, got)
				assert.Contains(t, w.Body.String(), `"commit_additions":100`)
			}
			fetcher.AssertExpectations(t)
		})
	}
}

func TestRecovery(t *testing.T) {
	fetcher := new(mockStats)
	fetcher.On("FetchAnnualStats", mock.Anything, "octocat").Panic("kaboom")
	router := NewRouter(&Handler{Stats: fetcher, Log: zap.NewNop()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/users/octocat/stats", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
