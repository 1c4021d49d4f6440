// Package api implements the HTTP surface: the JSON envelope, the
// ServiceError-to-status mapping, bearer authentication for both principal
// kinds, and one handler per operation.
package api

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape. Success responses carry Data and
// optionally Meta; failures carry Error.
type Envelope struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Meta    *Meta        `json:"meta,omitempty"`
}

// ErrorDetail contains the machine code and human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Meta carries list-response metadata.
type Meta struct {
	Pagination PageMeta `json:"pagination"`
}

// PageMeta describes the page a list response holds.
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// WriteSuccess writes a success envelope with the given status code.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, Envelope{Success: true, Data: data})
}

// WriteError writes a failure envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeEnvelope(w, status, Envelope{
		Success: false,
		Error:   &ErrorDetail{Code: code, Message: message},
	})
}

// WritePage slices allItems down to the requested page and writes it with
// pagination metadata.
func WritePage[T any](w http.ResponseWriter, status int, allItems []T, p Pagination) {
	writeEnvelope(w, status, Envelope{
		Success: true,
		Data:    PaginateSlice(allItems, p),
		Meta:    &Meta{Pagination: p.Meta(len(allItems))},
	})
}

// WritePrePaged writes items that were already paginated at the storage
// layer, with totalItems supplied by the caller.
func WritePrePaged[T any](w http.ResponseWriter, status int, items []T, p Pagination, totalItems int) {
	if items == nil {
		items = []T{}
	}
	writeEnvelope(w, status, Envelope{
		Success: true,
		Data:    items,
		Meta:    &Meta{Pagination: p.Meta(totalItems)},
	})
}
