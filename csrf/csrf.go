// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package csrf offers stateless protection against CSRF attacks using
// the HTTP Origin header and falling back to HMAC tokens stored on secured
// and HTTP-only cookies.
//
// Requests that pass the check are marked as verified, so method overrides
// can be restricted to them:
//
//	h = methodoverride.Handler(h, methodoverride.WithVerifier(csrf.Verified))
//	h = csrf.Handler(h, csrf.WithSecret(secret), csrf.WithDomain(domain), csrf.WithUserID(id))
package csrf

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/xsrftoken"
)

// actionID scopes tokens to this handler.
const actionID = "Global"

var (
	// Purposely ambiguous to avoid giving clues to potential attackers.
	errForbidden = "Forbidden"

	// ErrSecretRequired is raised when no signing secret is configured.
	ErrSecretRequired = errors.New("csrf: a secret key must be provided")
	// ErrDomainRequired is raised when no cookie domain is configured.
	ErrDomainRequired = errors.New("csrf: a domain name is required")
)

// Option implements http://commandcenter.blogspot.com/2014/01/self-referential-functions-and-design.html
type Option func(*handler)

type handler struct {
	name   string
	domain string
	secret string
	userID string
}

// WithName sets the CSRF cookie name. Defaults to "xt".
func WithName(n string) Option {
	return func(h *handler) {
		h.name = n
	}
}

// WithSecret sets the secret key used to sign tokens.
func WithSecret(s string) Option {
	return func(h *handler) {
		h.secret = s
	}
}

// WithUserID sets the random and unique user identifier tokens are bound to.
func WithUserID(s string) Option {
	return func(h *handler) {
		h.userID = s
	}
}

// WithDomain sets the domain of the CSRF cookie.
func WithDomain(d string) Option {
	return func(h *handler) {
		h.domain = d
	}
}

type verifiedKey struct{}

// Verified reports whether r passed the CSRF check of a Handler further up
// the chain. Safe methods are never marked.
func Verified(r *http.Request) bool {
	ok, _ := r.Context().Value(verifiedKey{}).(bool)
	return ok
}

// Handler checks Origin header first, if not set or has value "null" it validates using
// a HMAC CSRF token. For enabling Single Page Applications to send the XSRF cookie using
// async HTTP requests, use CORS and make sure Access-Control-Allow-Credential is enabled.
func Handler(h http.Handler, opts ...Option) http.Handler {
	// Default options
	csrf := &handler{
		name: "xt",
	}

	for _, opt := range opts {
		opt(csrf)
	}

	if csrf.secret == "" {
		panic(ErrSecretRequired)
	}

	if csrf.domain == "" {
		panic(ErrDomainRequired)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Re-enables browser's XSS filter if it was disabled
		w.Header().Set("x-xss-protection", "1; mode=block")

		if csrf.userID == "" {
			http.Error(w, errForbidden, http.StatusForbidden)
			return
		}

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			csrf.setToken(w)
			h.ServeHTTP(w, r)
			return
		}

		if !csrf.sameOrigin(r) && !csrf.validCookie(r) {
			http.Error(w, errForbidden, http.StatusForbidden)
			return
		}

		csrf.setToken(w)
		ctx := context.WithValue(r.Context(), verifiedKey{}, true)
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Details about Origin header can be found at https://wiki.mozilla.org/Security/Origin
func (csrf *handler) sameOrigin(r *http.Request) bool {
	u, err := url.ParseRequestURI(r.Header.Get("Origin"))
	return err == nil && u.Host == r.Host
}

func (csrf *handler) validCookie(r *http.Request) bool {
	cookie, err := r.Cookie(csrf.name)
	if err != nil {
		return false
	}
	return xsrftoken.Valid(cookie.Value, csrf.secret, csrf.userID, actionID)
}

func (csrf *handler) setToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     csrf.name,
		Value:    xsrftoken.Generate(csrf.secret, csrf.userID, actionID),
		Path:     "/",
		Domain:   csrf.domain,
		Expires:  time.Now().Add(xsrftoken.Timeout),
		MaxAge:   int(xsrftoken.Timeout.Seconds()),
		Secure:   true,
		HttpOnly: true,
	})
}
