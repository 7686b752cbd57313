package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"go-event-planner/internal/model"
	"go-event-planner/pkg/apierror"
)

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid credentials", model.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"expired token", model.ErrTokenExpired, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"malformed token", model.ErrTokenMalformed, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"logout without cookie", model.ErrCookieNotFound, http.StatusForbidden, "FORBIDDEN"},
		{"user not found", model.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"duplicate user", model.ErrUserAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
		{"event not found", model.ErrEventNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"duplicate reservation", model.ErrAlreadyReserved, http.StatusConflict, "CONFLICT"},
		{"event full", model.ErrEventFull, http.StatusConflict, "CONFLICT"},
		{"own event", model.ErrOwnEventReservation, http.StatusConflict, "CONFLICT"},
		{"already checked in", model.ErrAlreadyCheckedIn, http.StatusConflict, "CONFLICT"},
		{"forbidden", model.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"invalid input", model.ErrInvalidInput, http.StatusBadRequest, "BAD_REQUEST"},
		{"explicit api error", apierror.New("TEAPOT", "short and stout", "", http.StatusTeapot), http.StatusTeapot, "TEAPOT"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			require.Equal(t, tc.wantStatus, rec.Code)

			var body model.APIResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.False(t, body.Success)
			require.NotNil(t, body.Error)
			require.Equal(t, tc.wantCode, body.Error.Code)
		})
	}
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusCreated, map[string]string{"id": "abc"}, &model.Meta{Total: 1})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Nil(t, body.Error)
	require.NotNil(t, body.Meta)
	require.Equal(t, 1, body.Meta.Total)
}

func TestToUserResponseMarksExternalAccounts(t *testing.T) {
	internal := model.InternalUser{User: model.User{ID: "u1", Username: "jane", Role: model.RoleLoggedUser}}
	external := model.ExternalUser{User: model.User{ID: "u2", Username: "john", Role: model.RoleLoggedUser}}

	require.False(t, toUserResponse(internal).External)
	require.True(t, toUserResponse(external).External)
}
