package api

import (
	"net/http"

	"github.com/grillwire/cookoff/internal/service"
)

// HandleLogin returns a handler for POST /auth/login.
func HandleLogin(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		result, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, result)
	}
}

// HandleRefreshToken returns a handler for POST /auth/refresh.
func HandleRefreshToken(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.RefreshToken(r.Context(), ActorFrom(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, result)
	}
}

// HandleCurrentUser returns a handler for GET /auth/me and GET /users/me.
func HandleCurrentUser(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.CurrentUser(r.Context(), ActorFrom(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, user)
	}
}

// HandleSeatToken returns a handler for POST /auth/seat-token. Public: the
// QR token plus seat number is the judge's credential.
func HandleSeatToken(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QRToken    string `json:"qr_token"`
			SeatNumber int    `json:"seat_number"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		result, err := svc.IssueSeatToken(r.Context(), req.QRToken, req.SeatNumber)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, result)
	}
}
