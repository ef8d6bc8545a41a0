package api

import (
	"errors"
	"net/http"

	"github.com/studyhub/studyhub-backend/internal/model"
)

var errCantRetrieveUser = errors.New("can't retrieve user from context")

func (a *Api) getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	resp := &struct {
		ID       int64  `json:"id,omitempty"`
		FullName string `json:"full_name,omitempty"`
		Email    string `json:"email,omitempty"`
		Photo    string `json:"photo,omitempty"`
		Admin    bool   `json:"admin,omitempty"`
	}{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Photo:    user.Photo,
		Admin:    user.Admin,
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) registerDeviceHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	req := &struct {
		Token string `json:"token"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if req.Token == "" {
		a.badRequestResponse(w, r, errors.New("token must be provided"))
		return
	}

	if err := a.users.AddDeviceToken(r.Context(), a.db, user.ID, req.Token); err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
