// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package formmethod

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/hooklift/assert"
)

func TestMuxMatcherFunc(t *testing.T) {
	reply := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "%s %s %s", name, mux.Vars(r)["id"], r.PostFormValue("title"))
		}
	}

	r := mux.NewRouter()
	r.Handle("/posts/{id}", reply("update")).
		Methods(http.MethodPost).
		MatcherFunc(Match(MethodPut).MuxMatcherFunc())
	r.Handle("/posts/{id}", reply("delete")).
		Methods(http.MethodPost).
		MatcherFunc(Match(MethodDelete).MuxMatcherFunc())
	r.Handle("/posts/{id}", reply("create")).
		Methods(http.MethodPost)

	ts := httptest.NewServer(r)
	defer ts.Close()

	tests := []struct {
		desc string
		body string
		want string
	}{
		{"it routes put forms", "_method=PUT&title=hello", "update 7 hello"},
		{"it routes delete forms", "_method=DELETE&title=bye", "delete 7 bye"},
		{"it falls through plain forms", "title=new", "create 7 new"},
		{"it falls through late method fields", "title=x&_method=PUT", "create 7 x"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/posts/7", "application/x-www-form-urlencoded", strings.NewReader(tt.body))
			assert.Ok(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			assert.Ok(t, err)
			assert.Equals(t, http.StatusOK, resp.StatusCode)
			assert.Equals(t, tt.want, string(body))
		})
	}
}
