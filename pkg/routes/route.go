// Package routes declares HTTP routes as data so handlers can describe
// their endpoints and modules can register them on a mux.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
