// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package methodoverride

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/c4milo/formmethod"
	"github.com/hooklift/assert"
)

var requestHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	original, _ := formmethod.OriginalMethod(r.Context())
	fmt.Fprintf(w, "%s %s %s", r.Method, original, r.PostFormValue("title"))
})

func TestMethodOverride(t *testing.T) {
	ts := httptest.NewServer(Handler(requestHandler))
	defer ts.Close()

	form := "application/x-www-form-urlencoded"
	tests := []struct {
		desc        string
		method      string
		contentType string
		header      string
		body        string
		want        string
	}{
		{
			"it overrides using the first form field",
			"POST", form, "", "_method=PATCH&title=hola", "PATCH POST hola",
		},
		{
			"it overrides using the header",
			"POST", "application/json", "PATCH", `{"example":"foobar"}`, "PATCH POST ",
		},
		{
			"it normalizes header values",
			"POST", "", " delete ", "", "DELETE POST ",
		},
		{
			"it prefers the form field over the header",
			"POST", form, "PATCH", "_method=PUT&title=bye", "PUT POST bye",
		},
		{
			"it ignores a method field that is not first",
			"POST", form, "", "title=hola&_method=PATCH", "POST  hola",
		},
		{
			"it ignores methods outside the allow list",
			"POST", form, "", "_method=HEAD&title=hola", "POST  hola",
		},
		{
			"it ignores lowercase form values",
			"POST", form, "", "_method=put&title=hola", "POST  hola",
		},
		{
			"it only overrides post requests",
			"GET", "", "DELETE", "", "GET  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL, strings.NewReader(tt.body))
			assert.Ok(t, err)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			if tt.header != "" {
				req.Header.Set("HTTP-Method-Override", tt.header)
			}

			resp, err := http.DefaultClient.Do(req)
			assert.Ok(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			assert.Ok(t, err)
			assert.Equals(t, tt.want, string(body))
		})
	}
}

func TestOptions(t *testing.T) {
	denyAll := func(*http.Request) bool { return false }

	tests := []struct {
		desc   string
		opts   []Option
		header string
		body   string
		want   string
	}{
		{
			"custom allow list",
			[]Option{WithAllow(formmethod.MethodHead)},
			"", "_method=HEAD", "HEAD",
		},
		{
			"custom allow list rejects defaults",
			[]Option{WithAllow(formmethod.MethodHead)},
			"", "_method=DELETE", "POST",
		},
		{
			"header overrides disabled",
			[]Option{WithHeader("")},
			"PUT", "", "POST",
		},
		{
			"verifier rejects",
			[]Option{WithVerifier(denyAll)},
			"", "_method=DELETE", "POST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, r.Method)
			}), tt.opts...)

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.header != "" {
				req.Header.Set("HTTP-Method-Override", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equals(t, tt.want, rec.Body.String())
		})
	}
}
