package handler

import (
	"net/http"

	"github.com/jamspace/jamspace/internal/model"
	"github.com/jamspace/jamspace/internal/service"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{
		authService: authService,
	}
}

type signupRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required"`
	Name     string   `json:"name" validate:"required,max=100"`
	Role     string   `json:"role" validate:"max=100"`
	Skills   []string `json:"skills" validate:"max=50,dive,max=100"`
}

type signupResponse struct {
	User *model.User `json:"user"`
}

func (h *authHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	user, err := h.authService.Signup(r.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		Skills:   req.Skills,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, signupResponse{User: user})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType"`
	ExpiresIn   int64       `json:"expiresIn"`
	User        *model.User `json:"user"`
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.authService.TokenExpiry().Seconds()),
		User:        user,
	})
}
