package controllers

import (
	"net/http"

	"github.com/danuartha/kopistore/app/services"
	"github.com/danuartha/kopistore/pkg/auth"
	"github.com/danuartha/kopistore/pkg/response"
)

type AuthController struct {
	users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

// Register handles POST /auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if !decode(w, r, &in) {
		return
	}

	user, err := c.users.Register(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, user)
}

// Login handles POST /auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if !decode(w, r, &in) {
		return
	}

	result, err := c.users.Login(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, result)
}

// Profile handles GET /auth/profile.
func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.users.Profile(r.Context(), id.UserID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}

// UpdateProfile handles PUT /auth/profile.
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.UpdateProfileInput
	if !decode(w, r, &in) {
		return
	}

	user, err := c.users.UpdateProfile(r.Context(), id.UserID, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}

// ListUsers handles GET /users (admin).
func (c *AuthController) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.users.List(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, users)
}
