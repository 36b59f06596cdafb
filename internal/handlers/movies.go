package handlers

import (
	"bytes"
	"net/http"

	"moviecatalog"
	"moviecatalog/internal/apperr"
	"moviecatalog/internal/config"
	"moviecatalog/internal/services"
	"moviecatalog/internal/types"
	"moviecatalog/internal/utils"
)

type MovieHandler struct {
	catalog *services.CatalogService
	reviews *services.ReviewService
	plex    config.PlexConfig
}

func NewMovieHandler(catalog *services.CatalogService, reviews *services.ReviewService, plex config.PlexConfig) *MovieHandler {
	return &MovieHandler{catalog: catalog, reviews: reviews, plex: plex}
}

// GetMovies serves one filtered page of the catalog.
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	filter, page, err := services.ParseMovieQuery(r.URL.Query())
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}

	res, err := h.catalog.List(r.Context(), filter, page)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, res, http.StatusOK)
}

func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	m, err := h.catalog.Get(r.Context(), utils.GetPathParam(r, "id"))
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, m, http.StatusOK)
}

func (h *MovieHandler) GetTopRated(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.TopRated(r.Context())
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, movies, http.StatusOK)
}

func (h *MovieHandler) GetRandom(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.Random(r.Context())
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, movies, http.StatusOK)
}

func (h *MovieHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req types.ReviewRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	m, err := h.reviews.Submit(r.Context(), utils.GetPathParam(r, "id"), u, req)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, map[string]any{
		"message": "Review added successfully",
		"movie":   m,
	}, http.StatusCreated)
}

func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in types.MovieInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	m, err := h.catalog.Create(r.Context(), u.ID, in)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, m, http.StatusCreated)
}

func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var patch types.MoviePatch
	if err := utils.DecodeJSON(w, r, &patch); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	m, err := h.catalog.Update(r.Context(), utils.GetPathParam(r, "id"), patch)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, m, http.StatusOK)
}

func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), utils.GetPathParam(r, "id")); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondMessage(w, "Movie removed", http.StatusOK)
}

func (h *MovieHandler) DeleteAllMovies(w http.ResponseWriter, r *http.Request) {
	if _, err := h.catalog.DeleteAll(r.Context()); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondMessage(w, "All movies removed", http.StatusOK)
}

// ImportMovies replaces the catalog. ?source=plex reads the configured Plex
// library and ?source=seed the bundled dataset. Without a source the JSON
// array in the body is imported, falling back to the bundled dataset when
// the body is empty.
func (h *MovieHandler) ImportMovies(w http.ResponseWriter, r *http.Request) {
	var src services.Source
	switch source := r.URL.Query().Get("source"); source {
	case "plex":
		plex, err := services.NewPlexSource(h.plex)
		if err != nil {
			utils.RespondError(w, r, err)
			return
		}
		src = plex
	case "seed":
		src = services.NewSeedSource(moviecatalog.SeedMovies())
	case "", "request":
		body, err := utils.ReadBody(w, r)
		if err != nil {
			utils.RespondError(w, r, err)
			return
		}
		switch {
		case len(bytes.TrimSpace(body)) > 0:
			src = services.NewJSONSource("request", body)
		case source == "":
			src = services.NewSeedSource(moviecatalog.SeedMovies())
		default:
			utils.RespondError(w, r, apperr.Validation("Request body is required"))
			return
		}
	default:
		utils.RespondError(w, r, apperr.Validation("Unknown import source: "+source))
		return
	}

	movies, err := h.catalog.Import(r.Context(), src)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, movies, http.StatusCreated)
}
