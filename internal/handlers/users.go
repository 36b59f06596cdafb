package handlers

import (
	"net/http"

	"moviecatalog/internal/apperr"
	"moviecatalog/internal/auth"
	"moviecatalog/internal/services"
	"moviecatalog/internal/types"
	"moviecatalog/internal/utils"
)

type UserHandler struct {
	accounts  *services.AccountService
	favorites *services.FavoritesService
}

func NewUserHandler(accounts *services.AccountService, favorites *services.FavoritesService) *UserHandler {
	return &UserHandler{accounts: accounts, favorites: favorites}
}

// currentUser returns the user attached by auth.Middleware.RequireAuth.
func currentUser(w http.ResponseWriter, r *http.Request) (*types.User, bool) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, r, apperr.Unauthorized("Not authorized, no token"))
		return nil, false
	}
	return u, true
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	res, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, res, http.StatusCreated)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	res, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, res, http.StatusOK)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req types.UpdateProfileRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	res, err := h.accounts.UpdateProfile(r.Context(), u.ID, req)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, res, http.StatusOK)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req types.ChangePasswordRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), u.ID, req); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondMessage(w, "Password changed", http.StatusOK)
}

func (h *UserHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.accounts.DeleteSelf(r.Context(), u); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondMessage(w, "User deleted successfully", http.StatusOK)
}

func (h *UserHandler) GetLikedMovies(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	ids, err := h.favorites.List(r.Context(), u.ID)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, ids, http.StatusOK)
}

func (h *UserHandler) AddLikedMovie(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req types.AddLikedRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	ids, err := h.favorites.Add(r.Context(), u.ID, req.MovieID)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, ids, http.StatusOK)
}

func (h *UserHandler) DeleteLikedMovies(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.favorites.Clear(r.Context(), u.ID); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondMessage(w, "Your favorite movies deleted successfully", http.StatusOK)
}

func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, users, http.StatusOK)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.DeleteUser(r.Context(), utils.GetPathParam(r, "id")); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondMessage(w, "User deleted successfully", http.StatusOK)
}
