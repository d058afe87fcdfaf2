// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lucasferraz/cinevault/internal/platform/apperr"
	"github.com/lucasferraz/cinevault/internal/platform/constants"
	requestutil "github.com/lucasferraz/cinevault/internal/platform/request"
	"github.com/lucasferraz/cinevault/internal/platform/respond"
	"github.com/lucasferraz/cinevault/internal/platform/validate"
)

// # Input Bounds

const (
	minUsernameLength = 3
	maxUsernameLength = 30
	maxEmailLength    = 254
	// bcrypt only consumes the first 72 bytes of input.
	maxPasswordLength = 72
)

// # Handler

// Handler exposes the authentication workflows over HTTP.
type Handler struct {
	service      *Service
	secureCookie bool
}

// NewHandler creates the auth HTTP handler.
//
// secureCookie controls the Secure attribute on the session cookie and
// should be true everywhere except local development over plain HTTP.
func NewHandler(service *Service, secureCookie bool) *Handler {
	return &Handler{
		service:      service,
		secureCookie: secureCookie,
	}
}

/*
Routes mounts the authentication endpoints.

Public endpoints take no session at all. The session-check and logout
endpoints form the cookie route family: cookieGate is the authentication
middleware configured with cookie extraction, and it is the ONLY extraction
path consulted there (the Authorization header is ignored).

Endpoints:

	POST /register                  - create account (201)
	POST /login                     - verify credentials, set cookie, return token (200)
	POST /verify-email              - consume token from body (200)
	GET  /verify-email/{token}      - consume token from the emailed link (200)
	POST /resend-verification       - re-issue a verification token (200)
	POST /forgot-password           - issue a reset code (200)
	POST /reset-password            - consume code, replace password (200)
	GET  /session                   - who am I (200, cookie family)
	POST /logout                    - clear the session cookie (204, cookie family)
*/
func (handler *Handler) Routes(cookieGate func(http.Handler) http.Handler) http.Handler {
	router := chi.NewRouter()

	router.Post("/register", handler.handleRegister)
	router.Post("/login", handler.handleLogin)
	router.Post("/verify-email", handler.handleVerifyEmailBody)
	router.Get("/verify-email/{token}", handler.handleVerifyEmailPath)
	router.Post("/resend-verification", handler.handleResendVerification)
	router.Post("/forgot-password", handler.handleForgotPassword)
	router.Post("/reset-password", handler.handleResetPassword)

	router.Group(func(cookieRouter chi.Router) {
		cookieRouter.Use(cookieGate)
		cookieRouter.Get("/session", handler.handleSessionCheck)
		cookieRouter.Post("/logout", handler.handleLogout)
	})

	return router
}

// # Registration

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// handleRegister creates a new account and triggers the verification email.
func (handler *Handler) handleRegister(writer http.ResponseWriter, request *http.Request) {
	var payload registerRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := (&validate.Validator{}).
		Required(FieldEmail, payload.Email).
		Required(FieldUsername, payload.Username).
		Required(FieldPassword, payload.Password)
	if !validator.HasErrors() {
		validator.
			Email(FieldEmail, payload.Email).
			MaxLen(FieldEmail, payload.Email, maxEmailLength).
			MinLen(FieldUsername, payload.Username, minUsernameLength).
			MaxLen(FieldUsername, payload.Username, maxUsernameLength).
			Username(FieldUsername, payload.Username).
			MinLen(FieldPassword, payload.Password, MinPasswordLength).
			MaxLen(FieldPassword, payload.Password, maxPasswordLength)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), RegisterInput{
		Email:    payload.Email,
		Username: payload.Username,
		Password: payload.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, registerResponse{
		Message: "Account created, please check your email to verify your address",
		UserID:  user.ID,
	})
}

// # Login / Logout

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// handleLogin verifies credentials and establishes a session both ways at
// once: the token is set as an HttpOnly cookie for page navigation AND
// returned in the body for API clients using the Authorization header.
func (handler *Handler) handleLogin(writer http.ResponseWriter, request *http.Request) {
	var payload loginRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := (&validate.Validator{}).
		Required(FieldEmail, payload.Email).
		Required(FieldPassword, payload.Password).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, user, err := handler.service.Login(request.Context(), LoginInput{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, token, int(SessionTokenTTL.Seconds()))

	respond.OK(writer, loginResponse{
		Token: token,
		User:  user.Public(),
	})
}

// handleLogout clears the session cookie.
//
// Tokens are stateless, so nothing is revoked server-side: a token the
// client retained by other means stays valid until its expiry.
func (handler *Handler) handleLogout(writer http.ResponseWriter, request *http.Request) {
	handler.setSessionCookie(writer, "", -1)
	respond.NoContent(writer)
}

// setSessionCookie writes the session cookie. maxAge of -1 deletes it.
func (handler *Handler) setSessionCookie(writer http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   handler.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// # Email Verification

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// handleVerifyEmailBody consumes a verification token submitted in the body.
func (handler *Handler) handleVerifyEmailBody(writer http.ResponseWriter, request *http.Request) {
	var payload verifyEmailRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.verifyEmail(writer, request, payload.Token)
}

// handleVerifyEmailPath consumes a verification token from the emailed link.
func (handler *Handler) handleVerifyEmailPath(writer http.ResponseWriter, request *http.Request) {
	handler.verifyEmail(writer, request, requestutil.Param(request, "token"))
}

func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request, token string) {
	if err := (&validate.Validator{}).Required(FieldToken, token).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.service.VerifyEmail(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messageResponse{Message: message})
}

// # Resend Verification / Password Recovery

type emailOnlyRequest struct {
	Email string `json:"email"`
}

// handleResendVerification re-issues a verification token.
// The response is identical whether or not the email is registered.
func (handler *Handler) handleResendVerification(writer http.ResponseWriter, request *http.Request) {
	email, ok := handler.decodeEmailOnly(writer, request)
	if !ok {
		return
	}

	if err := handler.service.ResendVerification(request.Context(), email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messageResponse{Message: MessageEmailQueued})
}

// handleForgotPassword issues a 6-digit reset code.
// The response is identical whether or not the email is registered.
func (handler *Handler) handleForgotPassword(writer http.ResponseWriter, request *http.Request) {
	email, ok := handler.decodeEmailOnly(writer, request)
	if !ok {
		return
	}

	if err := handler.service.RequestPasswordReset(request.Context(), email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messageResponse{Message: MessageEmailQueued})
}

// decodeEmailOnly decodes and validates the single-email payload shared by
// the resend and forgot-password endpoints.
func (handler *Handler) decodeEmailOnly(writer http.ResponseWriter, request *http.Request) (string, bool) {
	var payload emailOnlyRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return "", false
	}

	err := (&validate.Validator{}).
		Required(FieldEmail, payload.Email).
		Email(FieldEmail, payload.Email).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return "", false
	}

	return payload.Email, true
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// handleResetPassword consumes a reset code and replaces the password.
func (handler *Handler) handleResetPassword(writer http.ResponseWriter, request *http.Request) {
	var payload resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := (&validate.Validator{}).
		Required(FieldEmail, payload.Email).
		Required(FieldCode, payload.Code).
		Required(FieldNewPassword, payload.NewPassword)
	if !validator.HasErrors() {
		validator.
			Email(FieldEmail, payload.Email).
			MinLen(FieldCode, payload.Code, ResetCodeDigits).
			MaxLen(FieldCode, payload.Code, ResetCodeDigits).
			MinLen(FieldNewPassword, payload.NewPassword, MinPasswordLength).
			MaxLen(FieldNewPassword, payload.NewPassword, maxPasswordLength)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ResetPassword(request.Context(), ResetPasswordInput{
		Email:       payload.Email,
		Code:        payload.Code,
		NewPassword: payload.NewPassword,
	}); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messageResponse{Message: "Password updated successfully"})
}

// # Session Check

type sessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *PublicUser `json:"user,omitempty"`
}

// handleSessionCheck reports the acting identity, if any.
//
// The cookie gate lets anonymous requests through, so an absent cookie lands
// here and yields 200 with authenticated=false rather than a 401: the page
// shell calls this on every load and an unauthenticated visitor is a normal
// answer, not an error. An invalid or expired cookie is still rejected by
// the gate with 401 before this handler runs.
func (handler *Handler) handleSessionCheck(writer http.ResponseWriter, request *http.Request) {
	claims := requestutil.Claims(request)
	if claims == nil {
		respond.OK(writer, sessionResponse{Authenticated: false})
		return
	}

	user, err := handler.service.CurrentUser(request.Context(), claims.UserID)
	if err != nil {
		// The account can vanish between the gate's existence check and this
		// lookup. A missing account is an invalid session here, not a 404.
		if apperr.IsNotFound(err) {
			err = apperr.Unauthorized("Invalid or expired token")
		}
		respond.Error(writer, request, err)
		return
	}

	publicUser := user.Public()
	respond.OK(writer, sessionResponse{
		Authenticated: true,
		User:          &publicUser,
	})
}
