package web

import (
	"context"
	"net/http"
)

// AddValueToContext returns a shallow copy of the request whose context
// carries the given key/value pair.
func AddValueToContext(r *http.Request, key string, value any) *http.Request {
	ctx := context.WithValue(r.Context(), key, value)
	return r.WithContext(ctx)
}

func GetValueFromContext[T any](r *http.Request, key string) (T, bool) {
	var zero T

	val := r.Context().Value(key)
	if val == nil {
		return zero, false
	}

	tVal, ok := val.(T)
	if !ok {
		return zero, false
	}

	return tVal, true
}
