// Copyright (c) 2026 Ultimate Library. All rights reserved.

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// Every response, success or error, follows the uniform envelope
//
//	{msg, data?, totalItems?, totalPages?, limit?, currentPage?}
//
// and every error body is paired with its correct status code, in exactly
// one place: [Error].
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fabinnerself/ultimate-library/internal/platform/apperr"
	"github.com/fabinnerself/ultimate-library/internal/platform/ctxutil"
	"github.com/fabinnerself/ultimate-library/pkg/pagination"
)

// Envelope is the JSON envelope for single-resource and message-only responses.
type Envelope struct {
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// ListEnvelope is the JSON envelope for paginated list responses.
type ListEnvelope struct {
	Msg         string      `json:"msg"`
	Data        interface{} `json:"data"`
	TotalItems  int64       `json:"totalItems"`
	TotalPages  int         `json:"totalPages"`
	Limit       int         `json:"limit"`
	CurrentPage int         `json:"currentPage"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with the message and data in the standard envelope.
func OK(writer http.ResponseWriter, msg string, data interface{}) {
	JSON(writer, http.StatusOK, Envelope{Msg: msg, Data: data})
}

// Msg writes a 200 OK response carrying only a message.
func Msg(writer http.ResponseWriter, msg string) {
	JSON(writer, http.StatusOK, Envelope{Msg: msg})
}

// List writes a 200 OK response with paginated data and its metadata flattened
// into the envelope.
func List(writer http.ResponseWriter, data interface{}, meta pagination.Meta) {
	JSON(writer, http.StatusOK, ListEnvelope{
		Msg:         "Ok",
		Data:        data,
		TotalItems:  meta.TotalItems,
		TotalPages:  meta.TotalPages,
		Limit:       meta.Limit,
		CurrentPage: meta.CurrentPage,
	})
}

// Error converts any Go error into a standardized JSON API error response.
//
// Non-[apperr.AppError] errors are treated as internal: logged with full
// detail server-side, surfaced generically to the client.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, Envelope{Msg: appError.Error()})
}
