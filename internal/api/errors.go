package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/grillwire/cookoff/internal/service"
)

// statusClientClosedRequest mirrors nginx's 499: the client went away before
// the response was written. Nothing reads the body; logging is the point.
const statusClientClosedRequest = 499

func invalidArgumentError(message string) *service.ServiceError {
	return &service.ServiceError{
		Code:    service.CodeValidation,
		Message: message,
	}
}

func writeInvalidArgument(w http.ResponseWriter, message string) {
	writeServiceError(w, nil, invalidArgumentError(message))
}

func writePayloadTooLarge(w http.ResponseWriter, limit int64) {
	msg := "request body too large"
	if limit > 0 {
		msg = "request body too large (max " + strconv.FormatInt(limit, 10) + " bytes)"
	}
	WriteError(w, http.StatusRequestEntityTooLarge, service.CodeValidation, msg)
}

func writeDecodeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *requestBodyTooLargeError
	if errors.As(err, &tooLarge) {
		writePayloadTooLarge(w, tooLarge.Limit)
		return
	}
	writeInvalidArgument(w, err.Error())
}

// statusForCode maps service error codes to HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeInvalidCreds, service.CodeInvalidToken,
		service.CodeInvalidQRToken, service.CodeUnauthorized:
		return http.StatusUnauthorized
	case service.CodeForbidden:
		return http.StatusForbidden
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeConflict:
		return http.StatusConflict
	case service.CodeInvalidTransition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError maps service errors onto the failure envelope. Internal
// errors are logged with their cause and surfaced with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		WriteError(w, http.StatusInternalServerError, service.CodeInternal, "internal server error")
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if r != nil {
			log.Printf("[api] %s %s: client gone: %v", r.Method, r.URL.Path, err)
		}
		WriteError(w, statusClientClosedRequest, service.CodeInternal, "request canceled")
		return
	}

	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		status := statusForCode(svcErr.Code)
		msg := svcErr.Message
		if status == http.StatusInternalServerError {
			if r != nil {
				log.Printf("[api] %s %s: %s: %v", r.Method, r.URL.Path, svcErr.Message, svcErr.Err)
			}
			msg = "internal server error"
		}
		WriteError(w, status, svcErr.Code, msg)
		return
	}

	if r != nil {
		log.Printf("[api] %s %s: unhandled error: %v", r.Method, r.URL.Path, err)
	}
	WriteError(w, http.StatusInternalServerError, service.CodeInternal, "internal server error")
}
