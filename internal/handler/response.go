package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-event-planner/internal/model"
	"go-event-planner/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid credentials"
	} else if errors.Is(err, model.ErrTokenMalformed) || errors.Is(err, model.ErrTokenExpired) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid or expired token"
	} else if errors.Is(err, model.ErrNoSessionCookie) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication required"
	} else if errors.Is(err, model.ErrCookieNotFound) {
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "No session cookie"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrUserAlreadyExists) {
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Username already exists"
	} else if errors.Is(err, model.ErrEventNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Event not found"
	} else if errors.Is(err, model.ErrReservationNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Reservation not found"
	} else if errors.Is(err, model.ErrAlreadyReserved) {
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = "Already reserved"
	} else if errors.Is(err, model.ErrEventFull) {
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = "Event is at capacity"
	} else if errors.Is(err, model.ErrOwnEventReservation) {
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = "Cannot reserve a seat at your own event"
	} else if errors.Is(err, model.ErrAlreadyCheckedIn) {
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = "Reservation already checked in"
	} else if errors.Is(err, model.ErrUnauthorized) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication required"
	} else if errors.Is(err, model.ErrForbidden) {
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Access denied"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	} else {
		// Log unclassified errors so they are visible in server logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

func toUserResponse(p model.Principal) model.UserResponse {
	account := p.Account()
	_, external := p.(model.ExternalUser)

	return model.UserResponse{
		ID:        account.ID,
		Username:  account.Username,
		Firstname: account.Firstname,
		Lastname:  account.Lastname,
		Email:     account.Email,
		Role:      account.Role,
		External:  external,
	}
}
