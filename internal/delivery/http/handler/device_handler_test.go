package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	domainDevice "security-monitor/internal/domain/device"
	"security-monitor/internal/logger"
	appErrors "security-monitor/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func TestRespondDeviceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "unknown device",
			err:        domainDevice.ErrDeviceNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "wrapped unknown device",
			err:        appErrors.NewAppError(appErrors.CodeStorage, "Failed to update device", domainDevice.ErrDeviceNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid status",
			err:        appErrors.NewAppError(appErrors.CodeInvalidArgument, "Status is invalid", domainDevice.ErrInvalidStatus),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "validation failure",
			err:        appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", nil),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "storage failure",
			err:        appErrors.NewAppError(appErrors.CodeStorage, "Failed to update device", errors.New("connection refused")),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "unclassified failure",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			respondDeviceError(c, tt.err)

			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 10},
		{"limit=25", 25},
		{"limit=abc", 10},
		{"limit=-3", -3},
	}

	for _, tt := range tests {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest(http.MethodGet, "/events?"+tt.query, nil)

		if got := parseLimit(c, 10); got != tt.want {
			t.Errorf("parseLimit(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
