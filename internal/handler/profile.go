package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/service"
)

// ProfileHandler serves the profile document routes: owner-scoped writes,
// public reads, and account deletion.
type ProfileHandler struct {
	profiles *service.ProfileService
	users    *service.UserService
	logger   *slog.Logger
}

func NewProfileHandler(profiles *service.ProfileService, users *service.UserService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, users: users, logger: logger}
}

// Me handles GET /api/profiles/me.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	profile, err := h.profiles.Mine(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

// Upsert handles POST /api/profiles: create the caller's profile or
// replace its field set wholesale.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var in service.ProfileInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	profile, err := h.profiles.Upsert(r.Context(), userID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

// List handles GET /api/profiles, the public directory.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.All(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profiles)
}

// ByUserID handles GET /api/profiles/user/{id}: a public read addressed by
// the owner's user id.
func (h *ProfileHandler) ByUserID(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.ByUserID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

// DeleteAccount handles DELETE /api/profiles: the caller's profile and
// user record go together, in one transaction.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.users.DeleteAccount(r.Context(), userID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, msgBody{Msg: "user deleted"})
}

// AddExperience handles PUT /api/profiles/experience.
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var in service.ExperienceInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	profile, err := h.profiles.AddExperience(r.Context(), userID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

// RemoveExperience handles DELETE /api/profiles/experience/{id}.
func (h *ProfileHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	profile, err := h.profiles.RemoveExperience(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

// AddEducation handles PUT /api/profiles/education.
func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var in service.EducationInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	profile, err := h.profiles.AddEducation(r.Context(), userID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

// RemoveEducation handles DELETE /api/profiles/education/{id}.
func (h *ProfileHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	profile, err := h.profiles.RemoveEducation(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}
