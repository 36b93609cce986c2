package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/devconnect/internal/github"
)

// GitHubHandler serves the public repos proxy.
type GitHubHandler struct {
	client   *github.Client
	fallback string // queried when the path carries an empty username
	logger   *slog.Logger
}

func NewGitHubHandler(client *github.Client, fallback string, logger *slog.Logger) *GitHubHandler {
	return &GitHubHandler{client: client, fallback: fallback, logger: logger}
}

// Repos handles GET /api/profiles/github/{id}: the user's five most
// recently created public repositories, passed through verbatim.
func (h *GitHubHandler) Repos(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "id")
	if username == "" {
		username = h.fallback
	}

	body, err := h.client.Repos(r.Context(), username)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("writing github response", slog.String("error", err.Error()))
	}
}
