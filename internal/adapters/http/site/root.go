// Package site serves the embedded browser demo for the CRUD routes.
package site

import (
	"context"
	"net/http"
)

// Prefix is where the demo page is mounted.
const Prefix = "/ui/"

// Register attaches the embedded demo site to mux under Prefix.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.StripPrefix(Prefix, http.FileServer(FS()))
	mux.Handle("GET "+Prefix, files)
}
