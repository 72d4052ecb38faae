package services_test

import (
	"context"
	"testing"

	"github.com/danuartha/kopistore/app/services"
	"github.com/danuartha/kopistore/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerInput(username, email string) services.RegisterInput {
	return services.RegisterInput{
		Username: username,
		Email:    email,
		Password: "secret123",
		Phone:    "0811111111",
		Address:  "Jl. Braga No. 10, Bandung",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	users := services.NewUserService(db)
	ctx := context.Background()

	view, err := users.Register(ctx, registerInput("alice", "alice@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "alice", view.Username)
	assert.False(t, view.IsAdmin)

	result, err := users.Login(ctx, services.LoginInput{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, view.ID, result.User.ID)

	_, err = users.Login(ctx, services.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = users.Login(ctx, services.LoginInput{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestRegisterDuplicates(t *testing.T) {
	db := newTestDB(t)
	users := services.NewUserService(db)
	ctx := context.Background()

	_, err := users.Register(ctx, registerInput("bob", "bob@example.com"))
	require.NoError(t, err)

	_, err = users.Register(ctx, registerInput("bob", "other@example.com"))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = users.Register(ctx, registerInput("robert", "bob@example.com"))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestUpdateProfilePartial(t *testing.T) {
	db := newTestDB(t)
	users := services.NewUserService(db)
	ctx := context.Background()

	view, err := users.Register(ctx, registerInput("carol", "carol@example.com"))
	require.NoError(t, err)

	city := "Yogyakarta"
	updated, err := users.UpdateProfile(ctx, view.ID, services.UpdateProfileInput{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Yogyakarta", updated.City)
	assert.Equal(t, view.Phone, updated.Phone)

	password := "newsecret99"
	_, err = users.UpdateProfile(ctx, view.ID, services.UpdateProfileInput{Password: &password})
	require.NoError(t, err)

	_, err = users.Login(ctx, services.LoginInput{Email: "carol@example.com", Password: "newsecret99"})
	assert.NoError(t, err)
	_, err = users.Login(ctx, services.LoginInput{Email: "carol@example.com", Password: "secret123"})
	assert.Error(t, err)
}
