package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"github.com/cuddles47/electroshop/internal/models"
	"github.com/cuddles47/electroshop/internal/store"
)

const sessionName = "session"

type AuthHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
}

// Identity is the caller as derived from the session cookie.
type Identity struct {
	UserID        string
	Email         string
	Role          string
	Authenticated bool
}

func (id Identity) IsAdmin() bool {
	return id.Authenticated && id.Role == models.RoleAdmin
}

func currentIdentity(ss *sessions.CookieStore, r *http.Request) Identity {
	session, _ := ss.Get(r, sessionName)
	auth, ok := session.Values["authenticated"].(bool)
	if !ok || !auth {
		return Identity{}
	}
	userID, _ := session.Values["user_id"].(string)
	email, _ := session.Values["email"].(string)
	role, _ := session.Values["role"].(string)
	return Identity{UserID: userID, Email: email, Role: role, Authenticated: true}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if !emailRegex.MatchString(req.Email) {
		writeError(w, http.StatusBadRequest, "A valid email address is required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    req.Email,
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := h.Store.CreateUser(user); err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("User registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user, err := h.Store.GetUserByEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	session.Values["authenticated"] = true
	session.Values["user_id"] = user.ID
	session.Values["email"] = user.Email
	session.Values["role"] = user.Role
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	slog.Info("Login successful", "user_id", user.ID)
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)
	session.Values["authenticated"] = false
	session.Options.MaxAge = -1 // Expire immediately
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Session reports the caller's identity. The CSRF token rides along in
// a header so API clients can pick it up before any mutating request,
// anonymous callers included.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if token := csrf.Token(r); token != "" {
		w.Header().Set("X-CSRF-Token", token)
	}

	id := currentIdentity(h.SessionStore, r)
	if !id.Authenticated {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	// Role is read back from the database so a demotion takes effect on
	// the next session check, not at the next login.
	user, err := h.Store.GetUserByID(id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	})
}
