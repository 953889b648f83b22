// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package formmethod lets HTML forms reach handlers for methods other than
// GET and POST.
//
// Forms declare the intended method in a hidden _method field that must be
// the first field of the submitted body:
//
//	<form method="POST" action="/posts/42">
//	  <input type="hidden" name="_method" value="DELETE" />
//	  <button type="submit">Delete post</button>
//	</form>
//
// Detection never parses the whole form. At most len("_method=DELETE")
// bytes are read from the body, and those bytes are handed back to the
// request so downstream handlers can still call ParseForm.
package formmethod

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const (
	contentType = "Content-Type"
	formContent = "application/x-www-form-urlencoded"
)

// Matcher reports whether a request satisfies a condition.
type Matcher func(*http.Request) bool

// IsFormRequest reports whether r is a POST carrying a URL-encoded form.
// The Content-Type header must equal application/x-www-form-urlencoded,
// ignoring case. Parameters such as charset are not accepted.
func IsFormRequest(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	return strings.EqualFold(r.Header.Get(contentType), formContent)
}

// FromRequest returns the method declared by the first field of a form
// submission. Requests failing IsFormRequest are rejected without touching
// their body.
func FromRequest(r *http.Request) (Method, bool) {
	if !IsFormRequest(r) {
		return "", false
	}

	peek, err := peekBody(r)
	if err != nil {
		return "", false
	}
	return FromBytes(peek)
}

// Match returns a Matcher accepting form submissions whose first field is
// _method with a value equal to m. It panics if m is not a valid method
// token.
func Match(m Method) Matcher {
	if _, err := ParseMethod(string(m)); err != nil {
		panic(errors.Wrap(err, "formmethod: invalid target method"))
	}

	return func(r *http.Request) bool {
		got, ok := FromRequest(r)
		return ok && got == m
	}
}

// MuxMatcherFunc adapts the matcher to a gorilla/mux route matcher. A
// request that does not match is left for the routes registered after it.
//
//	r := mux.NewRouter()
//	r.Handle("/posts/{id}", deletePost).
//		Methods(http.MethodPost).
//		MatcherFunc(formmethod.Match(formmethod.MethodDelete).MuxMatcherFunc())
func (m Matcher) MuxMatcherFunc() mux.MatcherFunc {
	return func(r *http.Request, _ *mux.RouteMatch) bool {
		return m(r)
	}
}
