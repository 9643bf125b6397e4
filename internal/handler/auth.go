package handler

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/Lipao9/sheeto/internal/model"
)

const (
	sessionCookieName = "session_token"
	csrfCookieName    = "csrf_token"
	csrfHeaderName    = "X-CSRF-Token"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "InvalidPayload")
		return
	}

	user, err := h.store.GetUserByUsername(payload.Username)
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if user == nil || !user.Active {
		respondMessage(w, r, http.StatusUnauthorized, "LoginError")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		respondMessage(w, r, http.StatusUnauthorized, "LoginError")
		return
	}

	if err := h.store.CleanupExpiredSessions(); err != nil {
		slog.Warn("failed to clean up expired sessions", "error", err)
	}

	token, err := h.store.CreateAuthSession(user.ID)
	if err != nil {
		slog.Error("failed to create session", "user_id", user.ID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("user logged in", "username", user.Username)
	respondJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
			"role":         user.Role,
		},
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.store.DeleteAuthSession(cookie.Value); err != nil {
			slog.Warn("failed to delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// requireAuth resolves the session cookie to a user and stores the user in
// the request context. Requests without a valid session get a 401.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			respondMessage(w, r, http.StatusUnauthorized, "LoginError")
			return
		}

		sess, err := h.store.GetAuthSession(cookie.Value)
		if err != nil {
			slog.Error("failed to load session", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if sess == nil {
			respondMessage(w, r, http.StatusUnauthorized, "LoginError")
			return
		}

		user, err := h.store.GetUserByID(sess.UserID)
		if err != nil {
			slog.Error("failed to load session user", "user_id", sess.UserID, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if user == nil || !user.Active {
			respondMessage(w, r, http.StatusUnauthorized, "LoginError")
			return
		}

		next.ServeHTTP(w, r.WithContext(model.ContextWithUser(r.Context(), user)))
	})
}

// requireRole gates a route to users with the given role.
func requireRole(role model.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := model.UserFromContext(r.Context())
			if user == nil || user.Role != role {
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// csrfMiddleware hands out a double-submit token on safe methods and checks
// the X-CSRF-Token header against the cookie on everything else.
func (h *Handler) csrfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			token, err := h.ensureCSRFCookie(w, r)
			if err != nil {
				slog.Error("failed to issue csrf token", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(model.ContextWithCSRFToken(r.Context(), token)))
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		if err != nil || cookie.Value == "" {
			http.Error(w, "invalid CSRF token", http.StatusForbidden)
			return
		}
		header := r.Header.Get(csrfHeaderName)
		if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
			http.Error(w, "invalid CSRF token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ensureCSRFCookie reuses the existing token cookie when present so open tabs
// stay valid, minting a fresh token otherwise.
func (h *Handler) ensureCSRFCookie(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(csrfCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}
