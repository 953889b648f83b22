// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package formmethod

import "context"

// originalMethodKey is the context key for the method a request arrived with
// before being overridden.
type originalMethodKey struct{}

// WithOriginalMethod returns a copy of ctx recording the method a request
// arrived with.
func WithOriginalMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, originalMethodKey{}, method)
}

// OriginalMethod returns the method a request arrived with, if its method
// was overridden.
func OriginalMethod(ctx context.Context) (method string, ok bool) {
	method, ok = ctx.Value(originalMethodKey{}).(string)
	return
}
