// Package handler implements the HTTP routes of the admin console. Handlers
// translate form posts into backend calls and render server-side templates;
// every state change the backend confirms is recorded in the audit log.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"memberdesk/internal/audit"
	"memberdesk/internal/backend"
	"memberdesk/internal/middleware"
	"memberdesk/internal/moderation"
	"memberdesk/internal/render"
	"memberdesk/internal/session"
)

// Handler holds the shared dependencies of all console routes.
type Handler struct {
	client          *backend.Client
	store           *session.Store
	renderer        *render.Renderer
	moderation      *moderation.Controller
	audit           *audit.Recorder
	loginProtection *middleware.LoginProtection
}

// New creates the console handler.
func New(
	client *backend.Client,
	store *session.Store,
	renderer *render.Renderer,
	mod *moderation.Controller,
	recorder *audit.Recorder,
	lp *middleware.LoginProtection,
) *Handler {
	return &Handler{
		client:          client,
		store:           store,
		renderer:        renderer,
		moderation:      mod,
		audit:           recorder,
		loginProtection: lp,
	}
}

// Routes registers all console routes on a new router. Session middleware
// and the global middleware stack are applied by the caller.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadIdentity(h.store))
		r.Get(RouteLogin, h.LoginForm)
		with := r.With(h.loginProtection.Middleware())
		with.Post(RouteLogin, h.Login)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.store))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, RouteMembers, http.StatusSeeOther)
		})
		r.Post(RouteLogout, h.Logout)

		r.Get(RouteMembers, h.Members)
		r.Get(RouteMembersRegister, h.RegisterForm)
		r.Post(RouteMembersRegister, h.Register)
		r.Get(RouteMemberDetail, h.MemberDetail)
		r.Post(RouteMemberToggle, h.ToggleMember)
		r.Post(RouteMemberImage, h.MemberImage)
		r.Post(RouteMembersToggleAll, h.ToggleAllMembers)

		r.Get(RouteEvents, h.Events)
		r.Get(RouteEventsCreate, h.EventCreateForm)
		r.Post(RouteEventsCreate, h.EventCreate)
		r.Get(RouteEventEdit, h.EventEditForm)
		r.Post(RouteEventEdit, h.EventUpdate)
		r.Post(RouteEventDelete, h.EventDelete)

		r.Get(RouteGalleries, h.Galleries)
		r.Get(RouteGalleryCreate, h.GalleryCreateForm)
		r.Post(RouteGalleryCreate, h.GalleryCreate)
		r.Get(RouteGalleryEdit, h.GalleryEditForm)
		r.Post(RouteGalleryEdit, h.GalleryUpdate)
		r.Post(RouteGalleryImages, h.GalleryAddImages)
		r.Post(RouteGalleryDelete, h.GalleryDelete)

		r.Get(RouteAudit, h.Audit)
	})

	return r
}

// record writes an audit entry for a confirmed console action.
func (h *Handler) record(r *http.Request, action, subject, detail string) {
	_ = h.audit.Record(r.Context(), audit.Entry{
		Actor:     middleware.GetActor(r),
		Action:    action,
		Subject:   subject,
		Detail:    detail,
		IP:        middleware.GetClientIP(r),
		UserAgent: r.UserAgent(),
	})
}
