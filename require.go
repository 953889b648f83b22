// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package formmethod

import "net/http"

// Option implements http://commandcenter.blogspot.com/2014/01/self-referential-functions-and-design.html
type Option func(*handler)

type handler struct {
	reject http.Handler
}

// WithRejectHandler sets the handler serving requests that do not match.
// Defaults to http.NotFoundHandler.
func WithRejectHandler(h http.Handler) Option {
	return func(o *handler) {
		o.reject = h
	}
}

// Require returns a middleware that only lets through form submissions
// declaring method m in their first field. Everything else is served by the
// reject handler. With chi:
//
//	r.With(formmethod.Require(formmethod.MethodDelete)).Post("/posts/{id}", deletePost)
func Require(m Method, opts ...Option) func(http.Handler) http.Handler {
	// Default options
	rh := &handler{
		reject: http.NotFoundHandler(),
	}

	for _, opt := range opts {
		opt(rh)
	}

	match := Match(m)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !match(r) {
				rh.reject.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
