// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"slices"
	"strings"

	"github.com/rs/cors"
)

const wildcard = "*"

// allMethods is what a "*" method list expands to.
var allMethods = []string{
	http.MethodDelete,
	http.MethodGet,
	http.MethodHead,
	http.MethodOptions,
	http.MethodPatch,
	http.MethodPost,
	http.MethodPut,
}

// CORSConfig is the user-facing cross-origin policy.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
	MaxAge           int
}

// CORSPolicy is a compiled CORSConfig. It is read-only after construction.
type CORSPolicy struct {
	allowAllOrigins bool
	origins         map[string]struct{}
	handler         *cors.Cors
}

// NewCORSPolicy compiles cfg. Entries are trimmed and blanks dropped.
func NewCORSPolicy(cfg CORSConfig) *CORSPolicy {
	origins := clean(cfg.AllowOrigins)
	p := &CORSPolicy{
		allowAllOrigins: slices.Contains(origins, wildcard),
		origins:         make(map[string]struct{}, len(origins)),
	}
	for _, o := range origins {
		p.origins[strings.ToLower(o)] = struct{}{}
	}

	methods := clean(cfg.AllowMethods)
	if slices.Contains(methods, wildcard) {
		methods = slices.Clone(allMethods)
	}
	for i, m := range methods {
		methods[i] = strings.ToUpper(m)
	}

	opts := cors.Options{
		AllowedMethods:       methods,
		AllowedHeaders:       clean(cfg.AllowHeaders),
		AllowCredentials:     cfg.AllowCredentials,
		MaxAge:               cfg.MaxAge,
		OptionsSuccessStatus: http.StatusOK,
	}
	// Credentialed responses must name the origin; browsers reject "*" there.
	// An origin func makes the handler mirror the request origin.
	if p.allowAllOrigins && !cfg.AllowCredentials {
		opts.AllowedOrigins = []string{wildcard}
	} else {
		opts.AllowOriginFunc = p.AllowsOrigin
	}
	p.handler = cors.New(opts)

	return p
}

// AllowsOrigin reports whether origin may make cross-origin requests.
func (p *CORSPolicy) AllowsOrigin(origin string) bool {
	if p.allowAllOrigins {
		return true
	}
	_, ok := p.origins[strings.ToLower(origin)]
	return ok
}

// CORSMiddleware applies policy to every request reaching next. Preflight
// requests are answered here and never reach next.
func CORSMiddleware(policy *CORSPolicy, next http.Handler) http.Handler {
	return policy.handler.Handler(next)
}

func clean(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
