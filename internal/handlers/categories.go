package handlers

import (
	"net/http"

	"moviecatalog/internal/services"
	"moviecatalog/internal/types"
	"moviecatalog/internal/utils"
)

type CategoryHandler struct {
	categories *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, categories, http.StatusOK)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req types.CategoryRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	c, err := h.categories.Create(r.Context(), req)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, c, http.StatusCreated)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req types.CategoryRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	c, err := h.categories.Update(r.Context(), utils.GetPathParam(r, "id"), req)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, c, http.StatusOK)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), utils.GetPathParam(r, "id")); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondMessage(w, "Category deleted", http.StatusOK)
}
