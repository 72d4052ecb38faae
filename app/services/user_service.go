package services

import (
	"context"
	"errors"
	"time"

	"github.com/danuartha/kopistore/app/models"
	"github.com/danuartha/kopistore/app/repositories"
	"github.com/danuartha/kopistore/pkg/apperr"
	"github.com/danuartha/kopistore/pkg/auth"
	"github.com/danuartha/kopistore/pkg/logger"
	"gorm.io/gorm"
)

// UserService handles registration, login and profile management. Passwords
// are stored as bcrypt hashes only; the plain text never leaves this layer.
type UserService struct {
	db    *gorm.DB
	users *repositories.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, users: repositories.NewUserRepository(db)}
}

// UserView is the safe user projection, without the password hash.
type UserView struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	FullName   string    `json:"full_name"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	Province   string    `json:"province"`
	IsAdmin    bool      `json:"is_admin"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func userView(u models.User) UserView {
	return UserView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Phone:      u.Phone,
		FullName:   u.FullName,
		Address:    u.Address,
		City:       u.City,
		PostalCode: u.PostalCode,
		Province:   u.Province,
		IsAdmin:    u.IsAdmin,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

// RegisterInput carries the sign-up fields.
type RegisterInput struct {
	Username   string `json:"username"    validate:"required,alpha_dash,min=3,max=100"`
	Email      string `json:"email"       validate:"required,email,max=120"`
	Password   string `json:"password"    validate:"required,min=8"`
	Phone      string `json:"phone"       validate:"required,max=20"`
	FullName   string `json:"full_name"   validate:"max=200"`
	Address    string `json:"address"     validate:"required"`
	City       string `json:"city"        validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"max=10"`
	Province   string `json:"province"    validate:"max=100"`
}

// Register creates an account. Username and email must both be unused.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (UserView, error) {
	if _, err := s.users.FindByUsername(in.Username); err == nil {
		return UserView{}, apperr.Conflict("username is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserView{}, apperr.Internal("check username", err)
	}

	if _, err := s.users.FindByEmail(in.Email); err == nil {
		return UserView{}, apperr.Conflict("email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserView{}, apperr.Internal("check email", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return UserView{}, apperr.Internal("hash password", err)
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		FullName:     in.FullName,
		Address:      in.Address,
		City:         in.City,
		PostalCode:   in.PostalCode,
		Province:     in.Province,
	}
	if err := s.users.Create(&user); err != nil {
		return UserView{}, apperr.Internal("create user", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID, "username", user.Username)
	return userView(user), nil
}

// LoginInput carries credentials; Login accepts the registered email.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult pairs the signed token with the authenticated user.
type LoginResult struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// Login verifies credentials and issues a JWT. Wrong email and wrong
// password produce the same error, never revealing which part failed.
func (s *UserService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	user, err := s.users.FindByEmail(in.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return LoginResult{}, apperr.Unauthorized("invalid email or password")
	}
	if err != nil {
		return LoginResult{}, apperr.Internal("load user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return LoginResult{}, apperr.Unauthorized("invalid email or password")
	}

	token, err := auth.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return LoginResult{}, apperr.Internal("sign token", err)
	}

	logger.WithCtx(ctx).Info("user logged in", "user_id", user.ID)
	return LoginResult{Token: token, User: userView(user)}, nil
}

// Profile returns the user's own view.
func (s *UserService) Profile(ctx context.Context, userID uint) (UserView, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return UserView{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return UserView{}, apperr.Internal("load user", err)
	}
	return userView(user), nil
}

// UpdateProfileInput holds the mutable profile fields. Nil fields keep
// their current value; username, email and admin flag are immutable here.
type UpdateProfileInput struct {
	Phone      *string `json:"phone"       validate:"nullable,max=20"`
	FullName   *string `json:"full_name"   validate:"nullable,max=200"`
	Address    *string `json:"address"     validate:"nullable"`
	City       *string `json:"city"        validate:"nullable,max=100"`
	PostalCode *string `json:"postal_code" validate:"nullable,max=10"`
	Province   *string `json:"province"    validate:"nullable,max=100"`
	Password   *string `json:"password"    validate:"nullable,min=8"`
}

// UpdateProfile applies the provided fields to the user's own record.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (UserView, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return UserView{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return UserView{}, apperr.Internal("load user", err)
	}

	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.City != nil {
		user.City = *in.City
	}
	if in.PostalCode != nil {
		user.PostalCode = *in.PostalCode
	}
	if in.Province != nil {
		user.Province = *in.Province
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return UserView{}, apperr.Internal("hash password", err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Save(&user); err != nil {
		return UserView{}, apperr.Internal("update user", err)
	}
	return userView(user), nil
}

// List returns every user, for admins.
func (s *UserService) List(ctx context.Context) ([]UserView, error) {
	users, err := s.users.All()
	if err != nil {
		return nil, apperr.Internal("list users", err)
	}

	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u))
	}
	return views, nil
}
