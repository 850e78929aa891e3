package handler

// Route pattern constants for chi router registration.
const (
	RouteLogin  = "/login"
	RouteLogout = "/logout"

	RouteMembers          = "/members"
	RouteMembersRegister  = "/members/register"
	RouteMemberDetail     = "/members/{id}"
	RouteMemberToggle     = "/members/{id}/toggle"
	RouteMemberImage      = "/members/{id}/image"
	RouteMembersToggleAll = "/members/toggle-all"

	RouteEvents       = "/events"
	RouteEventsCreate = "/events/create"
	RouteEventEdit    = "/events/{id}/edit"
	RouteEventDelete  = "/events/{id}/delete"

	RouteGalleries      = "/galleries"
	RouteGalleryCreate  = "/galleries/create"
	RouteGalleryEdit    = "/galleries/{id}/edit"
	RouteGalleryImages  = "/galleries/{id}/images"
	RouteGalleryDelete  = "/galleries/{id}/delete"

	RouteAudit = "/audit"
)

// Redirect targets after form posts.
const (
	redirectLogin     = RouteLogin
	redirectMembers   = RouteMembers
	redirectEvents    = RouteEvents
	redirectGalleries = RouteGalleries
)
