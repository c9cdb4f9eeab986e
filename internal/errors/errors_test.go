package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"log/slog"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeEmptyResult,
				Message: "no rows match \"IT\"",
				Cause:   nil,
			},
			wantMessage: "[EMPTY_RESULT] no rows match \"IT\"",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeExportFailed,
				Message: "export to /tmp/out.xlsx failed",
				Cause:   fmt.Errorf("disk full"),
			},
			wantMessage: "[EXPORT_FAILED] export to /tmp/out.xlsx failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := NewWritePermissionError("/locked/out.xlsx", cause)

	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeWritePermission, appErr.Type)
	assert.Equal(t, "/locked/out.xlsx", appErr.Context["path"])
}

func TestAppError_WithContext(t *testing.T) {
	err := NewInvalidInputError("no columns selected").
		WithContext("operation", "extract")

	assert.Equal(t, "extract", err.Context["operation"])
}

func TestNewEmptyResultError(t *testing.T) {
	err := NewEmptyResultError("IT")

	assert.Equal(t, ErrTypeEmptyResult, err.Type)
	assert.Contains(t, err.Error(), "IT")
	assert.Equal(t, "IT", err.Context["condition"])
}

func TestErrorHandler_HandleError_StatusMapping(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "invalid input maps to 400",
			err:        NewInvalidInputError("no filter conditions provided"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "empty result maps to 422",
			err:        NewEmptyResultError("Nowhere"),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeEmptyResult,
		},
		{
			name:       "no snapshot maps to 409",
			err:        NewNoSnapshotError(),
			wantStatus: http.StatusConflict,
			wantType:   TypeNoSnapshot,
		},
		{
			name:       "nothing to export maps to 409",
			err:        NewNothingToExportError(),
			wantStatus: http.StatusConflict,
			wantType:   TypeNothingToExport,
		},
		{
			name:       "source load maps to 422",
			err:        NewSourceLoadError("file is empty", "data.xlsx", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeSourceLoad,
		},
		{
			name:       "unknown error maps to 500",
			err:        fmt.Errorf("something odd"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/extract", nil)
			rec := httptest.NewRecorder()

			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantType)
		})
	}
}

func TestProblemDetails_MarshalJSON_IncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(
		http.StatusBadRequest,
		TypeValidation,
		"Bad Request",
		"columns must not be empty",
		"/api/extract",
	).WithExtension("error_code", "INVALID_INPUT")

	data, err := problem.MarshalJSON()
	require.NoError(t, err)

	assert.Contains(t, string(data), `"error_code":"INVALID_INPUT"`)
	assert.Contains(t, string(data), `"status":400`)
}
