package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/user-auth-service/internal/apperr"
	"github.com/iliyamo/user-auth-service/internal/model"
	"github.com/iliyamo/user-auth-service/internal/utils"
)

func TestRegisterReturnsSafeUserAndTokens(t *testing.T) {
	store := newMemStore()
	_, users := newTestServices(store)

	user, pair, err := users.Register(context.Background(), RegisterInput{
		Email:     "Alice@Example.com",
		Password:  "Password123!",
		FirstName: "Alice",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice@Example.com", user.Email, "email keeps the presented casing")
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// The stored hash verifies but is never part of the view.
	stored := store.users[user.ID]
	assert.True(t, utils.VerifyPassword(stored.PasswordHash, "Password123!"))
}

func TestEmailIsCaseSensitive(t *testing.T) {
	store := newMemStore()
	auth, users := newTestServices(store)

	_, _, err := users.Register(context.Background(), RegisterInput{
		Email:     "Alice@Example.com",
		Password:  "Password123!",
		FirstName: "Alice",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	// Login matches the stored address exactly as presented.
	_, _, err = auth.Login(context.Background(), LoginInput{Email: "Alice@Example.com", Password: "Password123!"})
	assert.NoError(t, err)
	_, _, err = auth.Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "Password123!"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	store := newMemStore()
	_, users := newTestServices(store)

	cases := map[string]RegisterInput{
		"missing email":  {Password: "Password123!", FirstName: "A", LastName: "B"},
		"bad email":      {Email: "not-an-email", Password: "Password123!", FirstName: "A", LastName: "B"},
		"short password": {Email: "a@example.com", Password: "Sh0rt", FirstName: "A", LastName: "B"},
		"no digit":       {Email: "a@example.com", Password: "NoDigitsHere!", FirstName: "A", LastName: "B"},
		"no uppercase":   {Email: "a@example.com", Password: "alllower123", FirstName: "A", LastName: "B"},
		"no lowercase":   {Email: "a@example.com", Password: "ALLUPPER123", FirstName: "A", LastName: "B"},
		"missing names":  {Email: "a@example.com", Password: "Password123!"},
	}
	for name, in := range cases {
		_, _, err := users.Register(context.Background(), in)
		assert.ErrorIs(t, err, apperr.ErrValidation, name)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newMemStore()
	_, users := newTestServices(store)

	in := RegisterInput{Email: "alice@example.com", Password: "Password123!", FirstName: "Alice", LastName: "Doe"}
	_, _, err := users.Register(context.Background(), in)
	require.NoError(t, err)

	_, _, err = users.Register(context.Background(), in)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestRegisterConcurrentSameEmail(t *testing.T) {
	store := newMemStore()
	_, users := newTestServices(store)

	in := RegisterInput{Email: "alice@example.com", Password: "Password123!", FirstName: "Alice", LastName: "Doe"}

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = users.Register(context.Background(), in)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperr.ErrConflict)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent registration wins")
	assert.Len(t, store.emails, 1, "no duplicate row is persisted")
}

func TestGetProfile(t *testing.T) {
	store := newMemStore()
	_, users := newTestServices(store)
	id := registerTestUser(t, users, "alice@example.com", "Password123!")

	user, err := users.GetProfile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = users.GetProfile(context.Background(), "missing-id")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateProfileMergesFields(t *testing.T) {
	store := newMemStore()
	_, users := newTestServices(store)
	id := registerTestUser(t, users, "alice@example.com", "Password123!")

	updated, err := users.UpdateProfile(context.Background(), id, UpdateProfileInput{FirstName: "Alicia"})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, "Doe", updated.LastName, "untouched fields keep their value")
	assert.Equal(t, "alice@example.com", updated.Email)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	store := newMemStore()
	_, users := newTestServices(store)
	id := registerTestUser(t, users, "alice@example.com", "Password123!")
	_, _, err := users.Register(context.Background(), RegisterInput{
		Email: "bob@example.com", Password: "Password123!", FirstName: "Bob", LastName: "Roe",
	})
	require.NoError(t, err)

	_, err = users.UpdateProfile(context.Background(), id, UpdateProfileInput{Email: "bob@example.com"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// Re-submitting your own email is not a conflict.
	_, err = users.UpdateProfile(context.Background(), id, UpdateProfileInput{Email: "alice@example.com"})
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	store := newMemStore()
	auth, users := newTestServices(store)
	id := registerTestUser(t, users, "alice@example.com", "Password123!")

	err := users.ChangePassword(context.Background(), id, ChangePasswordInput{
		CurrentPassword: "wrong-password",
		NewPassword:     "NewPassword456!",
		ConfirmPassword: "NewPassword456!",
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	err = users.ChangePassword(context.Background(), id, ChangePasswordInput{
		CurrentPassword: "Password123!",
		NewPassword:     "NewPassword456!",
		ConfirmPassword: "NewPassword456!",
	})
	require.NoError(t, err)

	// Old password is dead, new one logs in.
	_, _, err = auth.Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "Password123!"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	_, _, err = auth.Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "NewPassword456!"})
	assert.NoError(t, err)
}

func TestChangePasswordValidation(t *testing.T) {
	store := newMemStore()
	_, users := newTestServices(store)
	id := registerTestUser(t, users, "alice@example.com", "Password123!")

	cases := map[string]ChangePasswordInput{
		"too short": {
			CurrentPassword: "Password123!",
			NewPassword:     "Sh0rt",
			ConfirmPassword: "Sh0rt",
		},
		"no digit": {
			CurrentPassword: "Password123!",
			NewPassword:     "NoDigitsHere!",
			ConfirmPassword: "NoDigitsHere!",
		},
		"no uppercase": {
			CurrentPassword: "Password123!",
			NewPassword:     "alllower123",
			ConfirmPassword: "alllower123",
		},
		"confirmation mismatch": {
			CurrentPassword: "Password123!",
			NewPassword:     "NewPassword456!",
			ConfirmPassword: "Different456!",
		},
		"missing confirmation": {
			CurrentPassword: "Password123!",
			NewPassword:     "NewPassword456!",
		},
	}
	for name, in := range cases {
		err := users.ChangePassword(context.Background(), id, in)
		assert.ErrorIs(t, err, apperr.ErrValidation, name)
	}
}
