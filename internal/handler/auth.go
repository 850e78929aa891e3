package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"memberdesk/internal/audit"
	"memberdesk/internal/backend"
	"memberdesk/internal/middleware"
	"memberdesk/internal/render"
)

// LoginForm renders the login page. Already-authenticated admins are sent
// straight to the members screen.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetIdentity(r) != nil {
		http.Redirect(w, r, redirectMembers, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "login", render.TemplateData{Title: "Login"}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Login handles the login form submission. Credentials are forwarded to the
// backend; on success the returned identity is persisted in the session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectLogin, "Invalid form data")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Username and password are required")
		return
	}

	if locked, remaining := h.loginProtection.IsAccountLocked(username); locked {
		flashError(w, r, h.renderer, redirectLogin,
			fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(remaining)))
		return
	}

	identity, err := h.client.Login(r.Context(), backend.Credentials{
		Username: username,
		Password: password,
	})
	if err != nil {
		slog.Warn("login failed", "username", username, "error", err)
		h.record(r, audit.ActionLoginFailed, username, backend.Normalize(err))

		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(username); locked {
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("Too many failed attempts. Account locked for %s.", formatDuration(lockDuration)))
			return
		}
		flashError(w, r, h.renderer, redirectLogin, backend.Normalize(err))
		return
	}

	if !identity.IsAdmin() {
		slog.Warn("non-admin login rejected", "username", username, "role", identity.Role)
		h.record(r, audit.ActionLoginFailed, username, "account does not have the admin role")
		flashError(w, r, h.renderer, redirectLogin, "This account does not have admin access")
		return
	}

	if err := h.store.Login(r.Context(), identity); err != nil {
		logAndInternalError(w, "session login error", "error", err)
		return
	}

	h.loginProtection.RecordSuccessfulLogin(username)
	h.record(r, audit.ActionLogin, username, "")
	slog.Info("admin logged in", "username", username)

	flashSuccess(w, r, h.renderer, redirectMembers, "Welcome back, "+identity.Name)
}

// Logout destroys the session and returns to the login page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r)
	h.record(r, audit.ActionLogout, actor, "")

	if err := h.store.Logout(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("admin logged out", "username", actor)
	http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
}

// formatDuration renders a lockout duration in whole minutes or seconds.
func formatDuration(d time.Duration) string {
	if d >= time.Minute {
		return fmt.Sprintf("%d minutes", int(d.Round(time.Minute).Minutes()))
	}
	return fmt.Sprintf("%d seconds", int(d.Round(time.Second).Seconds()))
}
