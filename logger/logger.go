// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package logger allows logging HTTP requests using customized formats.
package logger

import (
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/c4milo/formmethod/internal"
	"github.com/satori/go.uuid"
	"github.com/valyala/bytebufferpool"
)

const requestIDHeader = "Request-ID"

// DefaultFormat is used when no Format option is given.
const DefaultFormat = `{id} remote_ip={remote_ip} user-agent={useragent} {method} (was {original_method}) "{scheme}{host}{url}?{query}" status={status} latency_human={latency_human} latency={latency} rxbytes={rxbytes} txbytes={txbytes}`

// Option implements http://commandcenter.blogspot.com/2014/01/self-referential-functions-and-design.html
type Option func(*handler)

// Internal handler
type handler struct {
	name   string
	format string
	flags  int
	out    io.Writer
}

// AppName allows to set the application name to log.
func AppName(name string) Option {
	return func(l *handler) {
		l.name = name
	}
}

// Format allows to set a custom log format.
//
// Directives:
//
// {id}               : The request ID.
// {remote_user}      : Remote user if Basic Auth credentials were sent
// {remote_ip}        : Remote IP address.
// {method}           : The request method after any override. Ex: GET, PUT, DELETE.
// {original_method}  : The request method as received, before any override.
// {scheme}           : The protocol scheme used, either http:// or https://.
// {host}             : The Host header sent to the server
// {url}              : The URL path requested.
// {query}            : Request's query string
// {status}           : Status sent to the client
// {rxbytes}          : Bytes received without headers
// {txbytes}          : Bytes sent, excluding HTTP headers.
// {latency}          : The time taken to serve the request, in nanoseconds.
// {latency_human}    : The time taken to serve the request, human readable.
// {useragent}        : User Agent
// {referer}          : The site from where the request came from
//
// Unknown directives are logged verbatim.
func Format(format string) Option {
	return func(l *handler) {
		l.format = format
	}
}

// Flags allows to set logging flags using Go's standard log flags.
//
// Example: log.LstdFlags | log.Lshortfile
// Keep in mind that log.Lshortfile and log.Llongfile are expensive flags
func Flags(flags int) Option {
	return func(l *handler) {
		l.flags = flags
	}
}

// Output allows setting an output writer for logging to be written to
func Output(out io.Writer) Option {
	return func(l *handler) {
		l.out = out
	}
}

// entry is what a directive is rendered from.
type entry struct {
	id             string
	originalMethod string
	latency        time.Duration
	r              *http.Request
	w              internal.ResponseWriter
}

var directives = map[string]func(e *entry) string{
	"id":              func(e *entry) string { return e.id },
	"remote_user":     func(e *entry) string { return remoteUser(e.r) },
	"remote_ip":       func(e *entry) string { return userIP(e.r) },
	"method":          func(e *entry) string { return e.r.Method },
	"original_method": func(e *entry) string { return e.originalMethod },
	"scheme":          func(e *entry) string { return urlScheme(e.r) },
	"host":            func(e *entry) string { return e.r.Host },
	"url":             func(e *entry) string { return e.r.URL.Path },
	"query":           func(e *entry) string { return e.r.URL.RawQuery },
	"status":          status,
	"rxbytes":         func(e *entry) string { return strconv.FormatInt(e.r.ContentLength, 10) },
	"txbytes":         func(e *entry) string { return strconv.Itoa(e.w.Size()) },
	"latency":         func(e *entry) string { return strconv.FormatInt(e.latency.Nanoseconds(), 10) },
	"latency_human":   func(e *entry) string { return e.latency.String() },
	"useragent":       func(e *entry) string { return e.r.UserAgent() },
	"referer":         func(e *entry) string { return e.r.Referer() },
}

// segment is either literal text or, when render is set, a directive.
type segment struct {
	text   string
	render func(e *entry) string
}

// compile splits format into literal text and directives once, so requests
// only walk the segments.
func compile(format string) []segment {
	var segs []segment
	for format != "" {
		end := strings.IndexByte(format, '}')
		if end < 0 {
			segs = append(segs, segment{text: format})
			break
		}

		start := strings.LastIndexByte(format[:end], '{')
		render, ok := directives[format[start+1:end]]
		if start < 0 || !ok {
			segs = append(segs, segment{text: format[:end+1]})
			format = format[end+1:]
			continue
		}

		if start > 0 {
			segs = append(segs, segment{text: format[:start]})
		}
		segs = append(segs, segment{render: render})
		format = format[end+1:]
	}
	return segs
}

// Handler does HTTP request logging. Place it outside of any method override
// handler to log both the received and the effective method.
func Handler(h http.Handler, opts ...Option) http.Handler {
	// Default options
	handler := &handler{
		name:   "unknown_app",
		format: DefaultFormat,
		out:    os.Stdout,
		flags:  log.LstdFlags | log.Lmicroseconds,
	}

	for _, opt := range opts {
		opt(handler)
	}

	l := log.New(handler.out, fmt.Sprintf("[%s] ", handler.name), handler.flags)
	segs := compile(handler.format)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// If there is a request ID already, we use it to keep the transaction
		// traceable. If not, we generate a new request ID.
		reqID := w.Header().Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewV4().String()
		}
		w.Header().Set(requestIDHeader, reqID)

		e := &entry{
			id:             reqID,
			originalMethod: r.Method,
			r:              r,
			w:              internal.NewResponseWriter(w),
		}

		h.ServeHTTP(e.w, r)
		e.latency = time.Since(start)

		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)

		for _, s := range segs {
			if s.render != nil {
				buf.WriteString(s.render(e))
				continue
			}
			buf.WriteString(s.text)
		}
		l.Print(buf.String())
	})
}

// status reports 200 for handlers that never wrote, as net/http does.
func status(e *entry) string {
	if !e.w.Written() {
		return strconv.Itoa(http.StatusOK)
	}
	return strconv.Itoa(e.w.Status())
}

func userIP(req *http.Request) string {
	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return ""
	}
	return ip
}

func urlScheme(req *http.Request) string {
	if req.TLS != nil {
		return "https://"
	}
	return "http://"
}

func remoteUser(req *http.Request) string {
	user, _, _ := req.BasicAuth()
	if user == "" && req.URL.User != nil {
		user = req.URL.User.Username()
	}

	return user
}
