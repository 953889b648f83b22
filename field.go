// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package formmethod

import (
	"bytes"
	"io"
	"unicode/utf8"
)

// FieldName is the form field carrying the intended HTTP method.
const FieldName = "_method"

const (
	// minLen is the length of the shortest first field that can match.
	minLen = len(FieldName + "=GET")
	// maxLen is the length of the longest first field that can match.
	// Nothing past it is ever read.
	maxLen = len(FieldName + "=DELETE")
)

// Buffer is a forward-only view over an already aggregated request body.
// Len reports the number of unread bytes. *bytes.Reader, *bytes.Buffer and
// *strings.Reader all satisfy it.
type Buffer interface {
	Len() int
	io.Reader
}

// FromBuffer reads at most maxLen bytes from b and parses them with
// FromBytes. Bytes consumed from b are not given back.
func FromBuffer(b Buffer) (Method, bool) {
	n := b.Len()
	if n < minLen {
		return "", false
	}
	if n > maxLen {
		n = maxLen
	}

	peek := make([]byte, n)
	if _, err := io.ReadFull(b, peek); err != nil {
		return "", false
	}
	return FromBytes(peek)
}

// FromBytes returns the method carried by the first field of a
// URL-encoded form body. It only matches when that field is literally
// named _method and its value parses with ParseMethod. A _method field
// anywhere but first is ignored, and values are not percent-decoded.
//
// Only the first maxLen bytes of p are examined.
func FromBytes(p []byte) (Method, bool) {
	if len(p) < minLen {
		return "", false
	}
	if len(p) > maxLen {
		p = p[:maxLen]
	}

	if !utf8.Valid(p) {
		return "", false
	}

	name, rest, ok := cutField(p)
	if !ok || string(name) != FieldName {
		return "", false
	}
	value, _, _ := cutField(rest)

	m, err := ParseMethod(string(value))
	if err != nil {
		return "", false
	}
	return m, true
}

// cutField splits p around its first '=' or '&'.
func cutField(p []byte) (field, rest []byte, found bool) {
	i := bytes.IndexAny(p, "=&")
	if i < 0 {
		return p, nil, false
	}
	return p[:i], p[i+1:], true
}
