// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lucasferraz/cinevault/internal/platform/apperr"
	"github.com/lucasferraz/cinevault/internal/platform/ctxutil"
	"github.com/lucasferraz/cinevault/internal/platform/sec"
)

// # Collaborator Contracts

// TokenIssuer signs session credentials. Implemented by [sec.TokenService].
type TokenIssuer interface {
	IssueSessionToken(userID, email, username string, timeToLive time.Duration) (string, error)
}

// EmailSender delivers transactional mail. Delivery is best-effort: the
// service logs failures and never propagates them to the client.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, toEmail, username, verifyLink string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, username, code string) error
}

// # Service

// Service implements the authentication workflows: registration, login,
// email verification, and password recovery.
//
// Every method returns errors as [apperr.AppError] so handlers translate
// them to HTTP without inspecting causes.
type Service struct {
	users         UserRepository
	resetCodes    ResetCodeRepository
	tokens        TokenIssuer
	mail          EmailSender
	publicBaseURL string
}

// NewService wires the authentication service with its collaborators.
func NewService(users UserRepository, resetCodes ResetCodeRepository, tokens TokenIssuer, mail EmailSender, publicBaseURL string) *Service {
	return &Service{
		users:         users,
		resetCodes:    resetCodes,
		tokens:        tokens,
		mail:          mail,
		publicBaseURL: publicBaseURL,
	}
}

// # Registration

// RegisterInput is the validated payload for account creation.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

/*
Register creates a new, unverified user account.

Steps:

 1. Reject when the email or username is already taken (409, no side effects).
 2. Hash the password.
 3. Generate a verification token expiring in 24 hours.
 4. Persist the user with is_verified=false and the pending token.
 5. Send the verification email, best-effort.

Two registrations racing past the pre-checks on the same identity are
arbitrated by the store's unique constraints: the second insert surfaces as
the same 409 the pre-check would have produced.

Returns:
  - *User: the created account (caller must use the Public projection for responses)
  - error: 409 on duplicate identity, 500 on hashing or storage failure
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	// ── 1. Uniqueness pre-checks ──
	if err := service.ensureIdentityFree(ctx, input.Email, input.Username); err != nil {
		return nil, err
	}

	// ── 2. Hash credentials ──
	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	// ── 3. Pending verification state ──
	verificationToken, err := sec.GenerateSecureToken(VerificationTokenLength)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_token_generation_failed: %w", err))
	}
	expiresAt := time.Now().UTC().Add(VerificationTokenTTL)

	// ── 4. Persist ──
	user := &User{
		Email:             input.Email,
		Username:          input.Username,
		PasswordHash:      passwordHash,
		IsVerified:        false,
		VerificationToken: &verificationToken,
		TokenExpiration:   &expiresAt,
	}
	if err := service.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// ── 5. Best-effort email ──
	service.sendVerificationMail(ctx, user, verificationToken)

	return user, nil
}

// ensureIdentityFree returns a 409 when the email or username is taken.
func (service *Service) ensureIdentityFree(ctx context.Context, email, username string) error {
	if _, err := service.users.FindByEmail(ctx, email); err == nil {
		return apperr.Conflict("An account with this email already exists")
	} else if !apperr.IsNotFound(err) {
		return err
	}

	if _, err := service.users.FindByUsername(ctx, username); err == nil {
		return apperr.Conflict("This username is already taken")
	} else if !apperr.IsNotFound(err) {
		return err
	}

	return nil
}

// # Login

// LoginInput is the validated payload for credential verification.
type LoginInput struct {
	Email    string
	Password string
}

// errInvalidCredentials is the single, shared 401 for "no such user" and
// "wrong password". Both branches return this exact value so the response
// shape cannot act as a user-enumeration oracle.
var errInvalidCredentials = apperr.Unauthorized("Invalid email or password")

/*
Login verifies credentials and issues a 7-day session token.

The verification-status check runs BEFORE the password check. This leaks
whether an email belongs to a registered-but-unverified account, but an
unverified account has never proven a password anyway, so the branch is not
a credential-guessing oracle. The missing-user and wrong-password branches
return the identical generic 401.

Returns:
  - string: the signed session token
  - *User: the authenticated account
  - error: 401 on unknown email or wrong password, 403 on unverified account
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (string, *User, error) {
	// ── 1. Load account ──
	user, err := service.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", nil, errInvalidCredentials
		}
		return "", nil, err
	}

	// ── 2. Verified accounts only ──
	if !user.IsVerified {
		return "", nil, apperr.ForbiddenCode("EMAIL_NOT_VERIFIED", "Please verify your email address before logging in")
	}

	// ── 3. Check password ──
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return "", nil, errInvalidCredentials
	}

	// ── 4. Issue session ──
	token, err := service.tokens.IssueSessionToken(user.ID, user.Email, user.Username, SessionTokenTTL)
	if err != nil {
		return "", nil, apperr.Internal(fmt.Errorf("auth_service_token_issue_failed: %w", err))
	}

	return token, user, nil
}

// # Email Verification

// Verification outcome messages returned to the client.
const (
	MessageVerified        = "Email verified successfully"
	MessageAlreadyVerified = "Email is already verified"
)

/*
VerifyEmail consumes a verification token and marks the account verified.

Outcomes:

  - Unknown token (never issued, or already consumed) → 400.
  - Expired token → 400 with a distinct code, same class.
  - Account already verified → 200 with [MessageAlreadyVerified], no mutation.
  - Valid pending token → 200 with [MessageVerified].

Two concurrent requests with the same valid token both succeed: the state
transition is a single conditional UPDATE, so exactly one request performs
it and the loser is treated as the already-verified idempotent case.
*/
func (service *Service) VerifyEmail(ctx context.Context, token string) (string, error) {
	// ── 1. Resolve token ──
	user, err := service.users.FindByVerificationToken(ctx, token)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.TokenError("INVALID_TOKEN", "Invalid or expired verification token")
		}
		return "", err
	}

	// ── 2. Expiry ──
	if user.TokenExpiration != nil && user.TokenExpiration.Before(time.Now().UTC()) {
		return "", apperr.TokenError("TOKEN_EXPIRED", "Verification token has expired, please request a new one")
	}

	// ── 3. Idempotent re-verification ──
	if user.IsVerified {
		return MessageAlreadyVerified, nil
	}

	// ── 4. Atomic transition ──
	transitioned, err := service.users.ConsumeVerificationToken(ctx, user.ID, token)
	if err != nil {
		return "", err
	}
	if !transitioned {
		// A concurrent request consumed the token between our read and the
		// UPDATE. The account is verified either way.
		return MessageAlreadyVerified, nil
	}

	return MessageVerified, nil
}

// MessageEmailQueued is the deliberately uninformative response for flows
// that would otherwise reveal whether an email is registered.
const MessageEmailQueued = "If an account with this email exists, an email has been sent"

/*
ResendVerification issues a fresh verification token and re-sends the email.

The response never reveals whether the email is registered: unknown emails
and already-verified accounts both produce the same generic success. Only a
pending, unverified account actually gets a new token.
*/
func (service *Service) ResendVerification(ctx context.Context, email string) error {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}

	if user.IsVerified {
		return nil
	}

	token, err := sec.GenerateSecureToken(VerificationTokenLength)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_token_generation_failed: %w", err))
	}

	expiresAt := time.Now().UTC().Add(VerificationTokenTTL)
	if err := service.users.SetVerificationToken(ctx, user.ID, token, expiresAt); err != nil {
		return err
	}

	service.sendVerificationMail(ctx, user, token)

	return nil
}

// # Password Recovery

/*
RequestPasswordReset issues a 6-digit reset code valid for one hour.

Like [Service.ResendVerification], the caller always receives the same
generic success so the endpoint cannot enumerate registered emails.
*/
func (service *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}

	code, err := sec.GenerateNumericCode(ResetCodeDigits)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_reset_code_failed: %w", err))
	}

	if err := service.resetCodes.Set(ctx, user.ID, code, ResetCodeTTL); err != nil {
		return err
	}

	if err := service.mail.SendPasswordResetEmail(ctx, user.Email, user.Username, code); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "auth_reset_email_send_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// ResetPasswordInput is the validated payload for completing a reset.
type ResetPasswordInput struct {
	Email       string
	Code        string
	NewPassword string
}

/*
ResetPassword consumes a reset code and replaces the password hash.

The unknown-email and wrong-code branches share one generic 400 so the
endpoint cannot confirm registration. A consumed code is deleted before the
success returns, making the code single-use.
*/
func (service *Service) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	invalidCode := apperr.TokenError("INVALID_RESET_CODE", "Invalid or expired reset code")

	user, err := service.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return invalidCode
		}
		return err
	}

	stored, err := service.resetCodes.Get(ctx, user.ID)
	if err != nil {
		return err
	}
	if stored == "" || stored != input.Code {
		return invalidCode
	}

	passwordHash, err := sec.HashPassword(input.NewPassword)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	if err := service.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return err
	}

	// Single-use: the code dies with the successful reset. A delete failure
	// is survivable since the TTL still bounds the code's life.
	if err := service.resetCodes.Delete(ctx, user.ID); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "auth_reset_code_delete_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// # Session Introspection

// CurrentUser loads the account behind verified session claims.
//
// Used by the session-check endpoint to return a fresh public projection
// instead of trusting possibly stale claim copies.
func (service *Service) CurrentUser(ctx context.Context, userID string) (*User, error) {
	return service.users.FindByID(ctx, userID)
}

// # Helpers

// sendVerificationMail delivers the confirmation link, best-effort.
// A failure is logged and swallowed: the user row and its pending token
// persist regardless, and the resend endpoint covers recovery.
func (service *Service) sendVerificationMail(ctx context.Context, user *User, token string) {
	verifyLink := fmt.Sprintf("%s/verify-email/%s", service.publicBaseURL, token)

	if err := service.mail.SendVerificationEmail(ctx, user.Email, user.Username, verifyLink); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "auth_verification_email_send_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
}
