package web

import (
	"errors"
	"net/http"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/auth"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the public view of a user record.
type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Verified: u.Verified}
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	user, err := s.auth.SignUp(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		s.respondError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	case errors.Is(err, auth.ErrEmailTaken):
		s.respondError(w, http.StatusConflict, codeValidation, "email already registered")
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to sign up")
		s.logger.Error("sign up failed", "error", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	token, user, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.respondError(w, http.StatusUnauthorized, codeUnauthorized, "invalid email or password")
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to sign in")
		s.logger.Error("sign in failed", "error", err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserResponse(user),
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	user, err := s.auth.Verify(r.Context(), req.Token)
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		s.respondError(w, http.StatusBadRequest, codeValidation, "invalid or expired verification token")
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to verify email")
		s.logger.Error("verify failed", "error", err)
		return
	}

	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleResendVerification(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	err := s.auth.ResendVerification(r.Context(), sess.UserID)
	switch {
	case errors.Is(err, auth.ErrAlreadyVerified):
		s.respondError(w, http.StatusConflict, codeValidation, "email already verified")
		return
	case errors.Is(err, auth.ErrUserNotFound):
		s.respondError(w, http.StatusNotFound, codeNotFound, "user not found")
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to resend verification")
		s.logger.Error("resend verification failed", "user_id", sess.UserID, "error", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSession re-reads the user record so a verification that happened
// after the token was issued is reflected immediately.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	user, err := s.auth.CurrentUser(r.Context(), sess)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		s.respondError(w, http.StatusUnauthorized, codeUnauthorized, "account no longer exists")
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to load session")
		s.logger.Error("load session failed", "user_id", sess.UserID, "error", err)
		return
	}

	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

// handleSignOut is a client-driven operation: tokens are stateless, so
// the server only acknowledges. The client discards its copy.
func (s *Server) handleSignOut(w http.ResponseWriter, _ *http.Request, _ *auth.Session) {
	w.WriteHeader(http.StatusNoContent)
}
