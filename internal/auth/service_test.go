// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasferraz/cinevault/internal/platform/apperr"
	"github.com/lucasferraz/cinevault/internal/platform/sec"
	"github.com/lucasferraz/cinevault/pkg/uuidv7"
)

// # Test Doubles

// memoryUserRepository is a mutex-guarded in-memory [UserRepository].
// It mirrors the store contract: apperr-wrapped 404s and 409s, and a
// conditional-update consume that arbitrates races.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*User)}
}

func (repository *memoryUserRepository) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.users {
		if strings.EqualFold(existing.Email, user.Email) || existing.Username == user.Username {
			return apperr.Conflict("User already exists")
		}
	}

	user.ID = uuidv7.New()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	saved := *user
	repository.users[user.ID] = &saved
	return nil
}

func (repository *memoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if user, ok := repository.users[id]; ok {
		found := *user
		return &found, nil
	}
	return nil, apperr.NotFound("User")
}

func (repository *memoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, user := range repository.users {
		if strings.EqualFold(user.Email, email) {
			found := *user
			return &found, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *memoryUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, user := range repository.users {
		if user.Username == username {
			found := *user
			return &found, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *memoryUserRepository) FindByVerificationToken(_ context.Context, token string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, user := range repository.users {
		if user.VerificationToken != nil && *user.VerificationToken == token {
			found := *user
			return &found, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *memoryUserRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	_, ok := repository.users[id]
	return ok, nil
}

func (repository *memoryUserRepository) SetVerificationToken(_ context.Context, userID, token string, expiresAt time.Time) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.VerificationToken = &token
	user.TokenExpiration = &expiresAt
	return nil
}

func (repository *memoryUserRepository) ConsumeVerificationToken(_ context.Context, userID, token string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[userID]
	if !ok || user.VerificationToken == nil || *user.VerificationToken != token {
		return false, nil
	}

	user.IsVerified = true
	user.VerificationToken = nil
	user.TokenExpiration = nil
	return true, nil
}

func (repository *memoryUserRepository) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = passwordHash
	return nil
}

// memoryResetCodes is an in-memory [ResetCodeRepository]. TTLs are ignored;
// expiry behavior belongs to the real store.
type memoryResetCodes struct {
	mu    sync.Mutex
	codes map[string]string
}

func newMemoryResetCodes() *memoryResetCodes {
	return &memoryResetCodes{codes: make(map[string]string)}
}

func (repository *memoryResetCodes) Set(_ context.Context, userID, code string, _ time.Duration) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.codes[userID] = code
	return nil
}

func (repository *memoryResetCodes) Get(_ context.Context, userID string) (string, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.codes[userID], nil
}

func (repository *memoryResetCodes) Delete(_ context.Context, userID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	delete(repository.codes, userID)
	return nil
}

// stubTokenIssuer returns a fixed token without signing anything.
type stubTokenIssuer struct {
	token string
	err   error
}

func (issuer *stubTokenIssuer) IssueSessionToken(_, _, _ string, _ time.Duration) (string, error) {
	return issuer.token, issuer.err
}

// recordingMailer captures outbound mail and can be told to fail.
type recordingMailer struct {
	mu            sync.Mutex
	failSends     bool
	verifications []string
	resetCodes    []string
}

func (mailer *recordingMailer) SendVerificationEmail(_ context.Context, toEmail, _, _ string) error {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if mailer.failSends {
		return errors.New("smtp unreachable")
	}
	mailer.verifications = append(mailer.verifications, toEmail)
	return nil
}

func (mailer *recordingMailer) SendPasswordResetEmail(_ context.Context, _, _, code string) error {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if mailer.failSends {
		return errors.New("smtp unreachable")
	}
	mailer.resetCodes = append(mailer.resetCodes, code)
	return nil
}

func (mailer *recordingMailer) sentVerifications() int {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	return len(mailer.verifications)
}

func (mailer *recordingMailer) lastResetCode() string {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.resetCodes) == 0 {
		return ""
	}
	return mailer.resetCodes[len(mailer.resetCodes)-1]
}

// # Fixture

type serviceFixture struct {
	service *Service
	users   *memoryUserRepository
	codes   *memoryResetCodes
	mailer  *recordingMailer
}

func newServiceFixture() *serviceFixture {
	users := newMemoryUserRepository()
	codes := newMemoryResetCodes()
	mail := &recordingMailer{}

	return &serviceFixture{
		service: NewService(users, codes, &stubTokenIssuer{token: "session-token"}, mail, "http://localhost:8080"),
		users:   users,
		codes:   codes,
		mailer:  mail,
	}
}

// registerUser registers a user through the real workflow and optionally
// verifies them via their pending token.
func (fixture *serviceFixture) registerUser(t *testing.T, email, username, password string, verified bool) *User {
	t.Helper()

	user, err := fixture.service.Register(context.Background(), RegisterInput{
		Email:    email,
		Username: username,
		Password: password,
	})
	require.NoError(t, err)

	if verified {
		stored, err := fixture.users.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.VerificationToken)

		_, err = fixture.service.VerifyEmail(context.Background(), *stored.VerificationToken)
		require.NoError(t, err)
	}

	return user
}

// # Registration

func TestRegister(t *testing.T) {
	t.Run("creates an unverified user with a pending token", func(t *testing.T) {
		fixture := newServiceFixture()

		user, err := fixture.service.Register(context.Background(), RegisterInput{
			Email:    "ana@example.com",
			Username: "ana",
			Password: "hunter2hunter2",
		})
		require.NoError(t, err)
		require.NotEmpty(t, user.ID)

		stored, err := fixture.users.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsVerified)
		require.NotNil(t, stored.VerificationToken)
		require.NotNil(t, stored.TokenExpiration)
		assert.True(t, stored.TokenExpiration.After(time.Now().UTC().Add(23*time.Hour)))

		assert.True(t, sec.CheckPasswordHash("hunter2hunter2", stored.PasswordHash))
		assert.Equal(t, 1, fixture.mailer.sentVerifications())
	})

	t.Run("duplicate email conflicts without side effects", func(t *testing.T) {
		fixture := newServiceFixture()
		first := fixture.registerUser(t, "ana@example.com", "ana", "hunter2hunter2", false)

		_, err := fixture.service.Register(context.Background(), RegisterInput{
			Email:    "ANA@example.com",
			Username: "different",
			Password: "hunter2hunter2",
		})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 409, appError.HTTPStatus)

		// The first row is untouched.
		stored, err := fixture.users.FindByID(context.Background(), first.ID)
		require.NoError(t, err)
		assert.Equal(t, "ana", stored.Username)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		fixture := newServiceFixture()
		fixture.registerUser(t, "ana@example.com", "ana", "hunter2hunter2", false)

		_, err := fixture.service.Register(context.Background(), RegisterInput{
			Email:    "other@example.com",
			Username: "ana",
			Password: "hunter2hunter2",
		})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 409, appError.HTTPStatus)
	})

	t.Run("mail failure does not fail registration", func(t *testing.T) {
		fixture := newServiceFixture()
		fixture.mailer.failSends = true

		user, err := fixture.service.Register(context.Background(), RegisterInput{
			Email:    "ana@example.com",
			Username: "ana",
			Password: "hunter2hunter2",
		})
		require.NoError(t, err)

		// The user row and its pending token persist regardless.
		stored, err := fixture.users.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.VerificationToken)
	})
}

// # Login

func TestLogin(t *testing.T) {
	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		fixture := newServiceFixture()
		fixture.registerUser(t, "ana@example.com", "ana", "hunter2hunter2", true)

		_, _, unknownErr := fixture.service.Login(context.Background(), LoginInput{
			Email:    "nobody@example.com",
			Password: "whatever",
		})
		_, _, wrongErr := fixture.service.Login(context.Background(), LoginInput{
			Email:    "ana@example.com",
			Password: "not-the-password",
		})

		unknownApp := apperr.As(unknownErr)
		wrongApp := apperr.As(wrongErr)
		require.NotNil(t, unknownApp)
		require.NotNil(t, wrongApp)

		assert.Equal(t, 401, unknownApp.HTTPStatus)
		assert.Equal(t, unknownApp.Code, wrongApp.Code)
		assert.Equal(t, unknownApp.Message, wrongApp.Message)
	})

	t.Run("unverified account is forbidden regardless of password", func(t *testing.T) {
		fixture := newServiceFixture()
		fixture.registerUser(t, "ana@example.com", "ana", "hunter2hunter2", false)

		for _, password := range []string{"hunter2hunter2", "wrong"} {
			_, _, err := fixture.service.Login(context.Background(), LoginInput{
				Email:    "ana@example.com",
				Password: password,
			})
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, 403, appError.HTTPStatus)
			assert.Equal(t, "EMAIL_NOT_VERIFIED", appError.Code)
		}
	})

	t.Run("correct credentials after verification yield a session", func(t *testing.T) {
		fixture := newServiceFixture()
		fixture.registerUser(t, "ana@example.com", "ana", "hunter2hunter2", true)

		token, user, err := fixture.service.Login(context.Background(), LoginInput{
			Email:    "ana@example.com",
			Password: "hunter2hunter2",
		})
		require.NoError(t, err)
		assert.Equal(t, "session-token", token)
		assert.Equal(t, "ana", user.Username)
		assert.True(t, user.IsVerified)
	})
}

// # Email Verification

func TestVerifyEmail(t *testing.T) {
	t.Run("unknown token", func(t *testing.T) {
		fixture := newServiceFixture()

		_, err := fixture.service.VerifyEmail(context.Background(), "never-issued")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 400, appError.HTTPStatus)
		assert.Equal(t, "INVALID_TOKEN", appError.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		fixture := newServiceFixture()
		user := fixture.registerUser(t, "ana@example.com", "ana", "hunter2hunter2", false)

		expired := time.Now().UTC().Add(-time.Hour)
		require.NoError(t, fixture.users.SetVerificationToken(context.Background(), user.ID, "stale-token", expired))

		_, err := fixture.service.VerifyEmail(context.Background(), "stale-token")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 400, appError.HTTPStatus)
		assert.Equal(t, "TOKEN_EXPIRED", appError.Code)
	})

	t.Run("valid token flips the flag and clears the pair", func(t *testing.T) {
		fixture := newServiceFixture()
		user := fixture.registerUser(t, "ana@example.com", "ana", "hunter2hunter2", false)

		stored, err := fixture.users.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		token := *stored.VerificationToken

		message, err := fixture.service.VerifyEmail(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, MessageVerified, message)

		after, err := fixture.users.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.True(t, after.IsVerified)
		assert.Nil(t, after.VerificationToken)
		assert.Nil(t, after.TokenExpiration)

		// Resubmitting the consumed token no longer resolves.
		_, err = fixture.service.VerifyEmail(context.Background(), token)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "INVALID_TOKEN", appError.Code)
	})

	t.Run("concurrent requests produce exactly one transition", func(t *testing.T) {
		fixture := newServiceFixture()
		user := fixture.registerUser(t, "ana@example.com", "ana", "hunter2hunter2", false)

		stored, err := fixture.users.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		token := *stored.VerificationToken

		const attempts = 8
		var wg sync.WaitGroup
		results := make([]error, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(slot int) {
				defer wg.Done()
				_, results[slot] = fixture.service.VerifyEmail(context.Background(), token)
			}(i)
		}
		wg.Wait()

		// A racer that read the user before the transition sees a success; one
		// that arrived after the token was cleared sees the invalid-token 400.
		// Nothing else is acceptable, and at least one call must have won.
		successes := 0
		for _, err := range results {
			if err == nil {
				successes++
				continue
			}
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "INVALID_TOKEN", appError.Code)
		}
		assert.GreaterOrEqual(t, successes, 1)

		after, err := fixture.users.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.True(t, after.IsVerified)
		assert.Nil(t, after.VerificationToken)
	})
}

func TestResendVerification(t *testing.T) {
	t.Run("unknown email succeeds silently", func(t *testing.T) {
		fixture := newServiceFixture()
		require.NoError(t, fixture.service.ResendVerification(context.Background(), "nobody@example.com"))
		assert.Equal(t, 0, fixture.mailer.sentVerifications())
	})

	t.Run("verified account succeeds without sending", func(t *testing.T) {
		fixture := newServiceFixture()
		fixture.registerUser(t, "ana@example.com", "ana", "hunter2hunter2", true)
		sentBefore := fixture.mailer.sentVerifications()

		require.NoError(t, fixture.service.ResendVerification(context.Background(), "ana@example.com"))
		assert.Equal(t, sentBefore, fixture.mailer.sentVerifications())
	})

	t.Run("pending account gets a fresh token", func(t *testing.T) {
		fixture := newServiceFixture()
		user := fixture.registerUser(t, "ana@example.com", "ana", "hunter2hunter2", false)

		before, err := fixture.users.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		originalToken := *before.VerificationToken

		require.NoError(t, fixture.service.ResendVerification(context.Background(), "ana@example.com"))

		after, err := fixture.users.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		require.NotNil(t, after.VerificationToken)
		assert.NotEqual(t, originalToken, *after.VerificationToken)
		assert.Equal(t, 2, fixture.mailer.sentVerifications())
	})
}

// # Password Recovery

func TestPasswordReset(t *testing.T) {
	t.Run("unknown email succeeds without issuing a code", func(t *testing.T) {
		fixture := newServiceFixture()
		require.NoError(t, fixture.service.RequestPasswordReset(context.Background(), "nobody@example.com"))
		assert.Empty(t, fixture.mailer.lastResetCode())
	})

	t.Run("full reset round trip", func(t *testing.T) {
		fixture := newServiceFixture()
		fixture.registerUser(t, "ana@example.com", "ana", "hunter2hunter2", true)

		require.NoError(t, fixture.service.RequestPasswordReset(context.Background(), "ana@example.com"))
		code := fixture.mailer.lastResetCode()
		require.Len(t, code, ResetCodeDigits)

		require.NoError(t, fixture.service.ResetPassword(context.Background(), ResetPasswordInput{
			Email:       "ana@example.com",
			Code:        code,
			NewPassword: "brand-new-password",
		}))

		// The old password no longer works, the new one does.
		_, _, err := fixture.service.Login(context.Background(), LoginInput{
			Email:    "ana@example.com",
			Password: "hunter2hunter2",
		})
		assert.Error(t, err)

		_, _, err = fixture.service.Login(context.Background(), LoginInput{
			Email:    "ana@example.com",
			Password: "brand-new-password",
		})
		assert.NoError(t, err)

		// The code is single-use.
		err = fixture.service.ResetPassword(context.Background(), ResetPasswordInput{
			Email:       "ana@example.com",
			Code:        code,
			NewPassword: "yet-another-password",
		})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "INVALID_RESET_CODE", appError.Code)
	})

	t.Run("wrong code is rejected", func(t *testing.T) {
		fixture := newServiceFixture()
		fixture.registerUser(t, "ana@example.com", "ana", "hunter2hunter2", true)
		require.NoError(t, fixture.service.RequestPasswordReset(context.Background(), "ana@example.com"))

		err := fixture.service.ResetPassword(context.Background(), ResetPasswordInput{
			Email:       "ana@example.com",
			Code:        "000000",
			NewPassword: "brand-new-password",
		})
		if fixture.mailer.lastResetCode() == "000000" {
			t.Skip("randomly drew the guessed code")
		}
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "INVALID_RESET_CODE", appError.Code)
	})
}
