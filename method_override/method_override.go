// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package methodoverride rewrites the method of POST requests coming from
// clients that cannot send anything else, such as HTML forms.
package methodoverride

import (
	"net/http"
	"strings"

	"github.com/c4milo/formmethod"
)

// Option implements http://commandcenter.blogspot.com/2014/01/self-referential-functions-and-design.html
type Option func(*handler)

// Internal handler
type handler struct {
	header   string
	allow    map[formmethod.Method]bool
	verifier func(*http.Request) bool
}

// WithAllow sets the methods a request may be overridden to.
// Defaults to PUT, PATCH and DELETE.
func WithAllow(methods ...formmethod.Method) Option {
	return func(h *handler) {
		h.allow = make(map[formmethod.Method]bool, len(methods))
		for _, m := range methods {
			h.allow[m] = true
		}
	}
}

// WithHeader sets the header clients may use instead of the _method field.
// An empty name disables header overrides.
func WithHeader(name string) Option {
	return func(h *handler) {
		h.header = name
	}
}

// WithVerifier sets a check every request must pass before its method is
// overridden, typically csrf.Verified.
func WithVerifier(v func(*http.Request) bool) Option {
	return func(h *handler) {
		h.verifier = v
	}
}

// Handler adds support for overriding the HTTP method, especially for clients
// that do not support HTTP methods other than GET and POST.
//
// The _method field is only honored as the first field of a
// application/x-www-form-urlencoded body; the rest of the body is not read.
// The override header is consulted when no such field is found.
//
// Examples for clients calling an API using this handler or middleware:
// <form method="POST" action="/resource">
//   <input type='hidden' name='_method' value='PATCH' />
//   <input type='text' name='title' />
//   <button type="submit">Update resource</button>
// </form>
//
// curl -n -X POST https://example.com/resource/$ID_OR_NAME \
// -H "Content-Type: application/json" \
// -H "HTTP-Method-Override: PATCH" \
// -d '{
//   "example": "foobar"
// }'
func Handler(h http.Handler, opts ...Option) http.Handler {
	// Default options
	mo := &handler{
		header: "HTTP-Method-Override",
	}
	WithAllow(formmethod.MethodPut, formmethod.MethodPatch, formmethod.MethodDelete)(mo)

	for _, opt := range opts {
		opt(mo)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			h.ServeHTTP(w, r)
			return
		}

		m, ok := mo.method(r)
		if !ok || !mo.allow[m] {
			h.ServeHTTP(w, r)
			return
		}

		if mo.verifier != nil && !mo.verifier(r) {
			h.ServeHTTP(w, r)
			return
		}

		ctx := formmethod.WithOriginalMethod(r.Context(), r.Method)
		r.Method = string(m)
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (mo *handler) method(r *http.Request) (formmethod.Method, bool) {
	if m, ok := formmethod.FromRequest(r); ok {
		return m, true
	}

	if mo.header == "" {
		return "", false
	}

	v := strings.ToUpper(strings.TrimSpace(r.Header.Get(mo.header)))
	if v == "" {
		return "", false
	}

	m, err := formmethod.ParseMethod(v)
	if err != nil {
		return "", false
	}
	return m, true
}
