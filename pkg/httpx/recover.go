package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/aussiebroadwan/shopcart/pkg/slogx"
)

// Recover turns a panicking handler into a 500 response.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slogx.FromContext(r.Context()).Error("panic recovered",
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				WriteDetail(w, http.StatusInternalServerError, DetailInternal)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
