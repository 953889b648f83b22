// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package formmethod

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/http/httpguts"
)

// Method is an HTTP request method token.
type Method string

// Standard methods, identical to the net/http constants.
const (
	MethodGet     Method = http.MethodGet
	MethodHead    Method = http.MethodHead
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodPatch   Method = http.MethodPatch
	MethodDelete  Method = http.MethodDelete
	MethodConnect Method = http.MethodConnect
	MethodOptions Method = http.MethodOptions
	MethodTrace   Method = http.MethodTrace
)

// ErrInvalidMethod is returned by ParseMethod for values that are not
// HTTP method tokens.
var ErrInvalidMethod = errors.New("formmethod: invalid HTTP method")

// ParseMethod parses s as an HTTP method. Standard methods are matched
// case-sensitively. Any other token made of RFC 7230 tchar characters is
// accepted as an extension method, so "get" parses but is not MethodGet.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if m.IsStandard() {
		return m, nil
	}

	if s == "" || strings.IndexFunc(s, isNotToken) != -1 {
		return "", errors.Wrapf(ErrInvalidMethod, "%q", s)
	}
	return m, nil
}

// IsStandard reports whether m is one of the methods defined by RFC 7231
// and RFC 5789.
func (m Method) IsStandard() bool {
	switch m {
	case MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch,
		MethodDelete, MethodConnect, MethodOptions, MethodTrace:
		return true
	}
	return false
}

func (m Method) String() string {
	return string(m)
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}
