package web

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/koshanqari/kanYini-connect-sub000/internal/logging"
	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
	mw "github.com/koshanqari/kanYini-connect-sub000/internal/web/middleware"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=200"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      model.User `json:"user"`
}

// handleRegister creates a self-service account. Self-registered accounts
// are always plain users; admin roles are granted by an existing admin.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decodeValid(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if len(req.Password) < s.cfg.Auth.MinPasswordLength {
		respondErrorMsg(w, r, http.StatusBadRequest,
			fmt.Sprintf("password must be at least %d characters", s.cfg.Auth.MinPasswordLength))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.Auth.BcryptCost)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, err := s.stores.Users.Create(r.Context(), model.NewUser{
		Email:        strings.TrimSpace(req.Email),
		Name:         strings.TrimSpace(req.Name),
		Role:         model.RoleUser,
		IsActive:     true,
		PasswordHash: string(hash),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	if _, err := s.stores.Profiles.Create(r.Context(), user.ID, model.NewProfile{Name: user.Name}); err != nil {
		respondError(w, r, err)
		return
	}

	sess, err := s.issueSession(r, user)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("member registered",
		"user_id", user.ID,
		"email", user.Email,
	)
	writeJSON(w, http.StatusCreated, sessionResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      *user,
	})
}

// handleLogin exchanges credentials for a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decodeValid(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := s.stores.Users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	// Imported accounts have no password hash until one is set; they fail
	// the same way as a wrong password.
	if user == nil || user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondErrorMsg(w, r, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !user.IsActive {
		respondErrorMsg(w, r, http.StatusForbidden, "account is deactivated")
		return
	}

	sess, err := s.issueSession(r, user)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("member logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, sessionResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      *user,
	})
}

// handleLogout revokes the presented bearer token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := s.stores.Sessions.Delete(r.Context(), token); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMe returns the authenticated user's own account.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := mw.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, user)
}

// issueSession mints an opaque token and stores it with the configured TTL.
func (s *Server) issueSession(r *http.Request, user *model.User) (*model.Session, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	now := time.Now().UTC()
	sess := model.Session{
		Token:     hex.EncodeToString(buf),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.Auth.SessionTTL),
		CreatedAt: now,
	}
	if err := s.stores.Sessions.Create(r.Context(), sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// decodeValid decodes a JSON body into dst and runs struct validation.
func (s *Server) decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %s", errBadJSON, err)
	}
	return s.validate.Struct(dst)
}
