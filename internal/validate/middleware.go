package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/resource-api/internal/apperr"
)

// Decoder is implemented by every Shape.
type Decoder interface {
	decodeAny(src map[string]any) (any, error)
}

func (s Shape[T]) decodeAny(src map[string]any) (any, error) {
	return s.Decode(src)
}

// Sources selects which parts of a request are validated. Nil entries are
// skipped.
type Sources struct {
	Body   Decoder
	Params Decoder
	Query  Decoder
}

type ctxKey int

const (
	bodyKey ctxKey = iota
	paramsKey
	queryKey
)

const maxBodyBytes = 10 << 20

// Middleware validates the configured sources in order body, params, query
// and stores each typed value in the request context. The first failing
// source is passed to onError and the chain stops.
func Middleware(onError func(http.ResponseWriter, *http.Request, error), src Sources) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if src.Body != nil {
				raw, err := readBody(w, r)
				if err != nil {
					onError(w, r, err)
					return
				}
				v, err := src.Body.decodeAny(raw)
				if err != nil {
					onError(w, r, err)
					return
				}
				ctx = context.WithValue(ctx, bodyKey, v)
			}

			if src.Params != nil {
				v, err := src.Params.decodeAny(routeParams(r))
				if err != nil {
					onError(w, r, err)
					return
				}
				ctx = context.WithValue(ctx, paramsKey, v)
			}

			if src.Query != nil {
				v, err := src.Query.decodeAny(queryValues(r))
				if err != nil {
					onError(w, r, err)
					return
				}
				ctx = context.WithValue(ctx, queryKey, v)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BodyFrom returns the validated body stored by Middleware.
func BodyFrom[T any](ctx context.Context) T {
	v, _ := ctx.Value(bodyKey).(T)
	return v
}

// ParamsFrom returns the validated path parameters stored by Middleware.
func ParamsFrom[T any](ctx context.Context) T {
	v, _ := ctx.Value(paramsKey).(T)
	return v
}

// QueryFrom returns the validated query stored by Middleware.
func QueryFrom[T any](ctx context.Context) T {
	v, _ := ctx.Value(queryKey).(T)
	return v
}

func readBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	if r.Body == nil {
		return map[string]any{}, nil
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, bodyError("could not read request body")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		return nil, bodyError("must be a JSON object")
	}
	return out, nil
}

func bodyError(msg string) error {
	return apperr.ValidationFailed(map[string]any{
		"violations": []Violation{{"field": "body", "json": msg}},
	})
}

func routeParams(r *http.Request) map[string]any {
	out := map[string]any{}
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return out
	}
	for i, k := range rctx.URLParams.Keys {
		// "*" is the wildcard chi adds when mounting sub-routers.
		if k == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		out[k] = rctx.URLParams.Values[i]
	}
	return out
}

func queryValues(r *http.Request) map[string]any {
	q := r.URL.Query()
	out := make(map[string]any, len(q))
	for k, vs := range q {
		if len(vs) == 1 {
			out[k] = vs[0]
		} else {
			out[k] = vs
		}
	}
	return out
}
