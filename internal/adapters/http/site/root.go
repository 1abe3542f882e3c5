// Package site answers requests for the service root.
package site

import (
	"context"
	"net/http"
)

// DocsPath is where the root redirects browsers.
const DocsPath = "/api-docs"

// Register attaches the root route to mux. Only "/" itself is handled;
// unknown paths keep falling through to the mux's 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", NewRootHandler(DocsPath).HandleRoot)
}

// RootHandler redirects the root to the API docs.
type RootHandler struct {
	target string
}

// NewRootHandler creates a root handler redirecting to target.
func NewRootHandler(target string) *RootHandler {
	return &RootHandler{target: target}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.target, http.StatusFound)
}
