package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/dmitrijs2005/gophtasks/internal/server/validation"
)

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decode(w, r, validation.Register, &req); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	res, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decode(w, r, validation.Login, &req); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	res, err := h.users.GetProfile(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var patch services.ProfilePatch
	if err := decode(w, r, validation.UpdateProfile, &patch); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	res, err := h.users.UpdateProfile(r.Context(), userIDFrom(r.Context()), patch)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
