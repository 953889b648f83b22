// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package formmethod

import (
	"bytes"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// replayBody serves bytes already peeked from a request body before the
// rest of the original body.
type replayBody struct {
	io.Reader
	io.Closer
}

// peekBody reads up to maxLen bytes from r.Body and puts them back in
// front of the unread remainder, so the body stays intact for whoever reads
// it next. It returns nil when the body is known to be too short to match.
func peekBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	// Zero is also what unsized bodies report, so only positive lengths are
	// trusted.
	if r.ContentLength > 0 && r.ContentLength < int64(minLen) {
		return nil, nil
	}

	peek := make([]byte, maxLen)
	n, err := io.ReadFull(r.Body, peek)
	peek = peek[:n]

	if n > 0 {
		r.Body = replayBody{
			Reader: io.MultiReader(bytes.NewReader(peek), r.Body),
			Closer: r.Body,
		}
	}

	switch err {
	case nil, io.EOF, io.ErrUnexpectedEOF:
		return peek, nil
	default:
		return peek, errors.Wrapf(err, "formmethod: failed peeking request body")
	}
}
