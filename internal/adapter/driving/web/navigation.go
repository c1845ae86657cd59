package web

import (
	vm "github.com/ericfisherdev/agendahub/internal/adapter/driving/web/viewmodel"
)

// Route identifies one of the three screens.
type Route string

const (
	RouteHome  Route = "/"
	RouteLogin Route = "/login"
	RouteAdmin Route = "/admin"
)

// msgLoginRequired is shown when an anonymous visitor opens the dashboard.
const msgLoginRequired = "Silakan login terlebih dahulu"

var knownRoutes = map[string]Route{
	"/":      RouteHome,
	"/login": RouteLogin,
	"/admin": RouteAdmin,
}

// ResolveRoute maps a request path to its screen. Unknown paths show the
// public listing.
func ResolveRoute(path string) Route {
	if route, ok := knownRoutes[path]; ok {
		return route
	}
	return RouteHome
}

// Navigation is the outcome of resolving a page request: either render Route,
// or redirect to RedirectTo carrying Flash to the next page.
type Navigation struct {
	Route      Route
	RedirectTo string
	Flash      *vm.Flash
}

// Navigate applies the session guards to path. The dashboard requires a valid
// session; the login form forwards an authenticated user to the dashboard.
func Navigate(path string, authenticated bool) Navigation {
	route := ResolveRoute(path)

	switch {
	case route == RouteAdmin && !authenticated:
		return Navigation{
			Route:      RouteLogin,
			RedirectTo: string(RouteLogin),
			Flash:      &vm.Flash{Kind: vm.FlashError, Message: msgLoginRequired},
		}
	case route == RouteLogin && authenticated:
		return Navigation{Route: RouteAdmin, RedirectTo: string(RouteAdmin)}
	default:
		return Navigation{Route: route}
	}
}

// navLinks builds the navigation bar for requestPath. A link is active only
// when the browser is on exactly that path.
func navLinks(requestPath string) []vm.NavLink {
	links := []vm.NavLink{
		{Label: "Home", Path: string(RouteHome)},
		{Label: "Login", Path: string(RouteLogin)},
		{Label: "Dashboard", Path: string(RouteAdmin), AdminOnly: true},
	}
	for i := range links {
		links[i].Active = links[i].Path == requestPath
	}
	return links
}
