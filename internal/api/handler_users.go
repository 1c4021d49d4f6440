package api

import (
	"net/http"

	"github.com/grillwire/cookoff/internal/model"
	"github.com/grillwire/cookoff/internal/service"
)

// HandleCreateUser returns a handler for POST /users.
func HandleCreateUser(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		user, err := svc.CreateUser(r.Context(), ActorFrom(r), service.UserInput{
			Username: req.Username,
			Password: req.Password,
			Role:     model.Role(req.Role),
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusCreated, user)
	}
}
