package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/fhuszti/movies-ms-go/internal/api_context"
	"github.com/fhuszti/movies-ms-go/internal/handler/api"
	"github.com/go-chi/chi/v5"
)

// WithTitle stashes the {title} path parameter in the request context.
// Matching against stored records is left to the use cases.
func WithTitle() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			title := chi.URLParam(r, "title")
			// chi routes on the raw path when it carries escapes such as %2F
			if unescaped, err := url.PathUnescape(title); err == nil {
				title = unescaped
			}
			if strings.TrimSpace(title) == "" {
				api.WriteError(w, http.StatusBadRequest, "title is required", nil)
				return
			}

			ctx := context.WithValue(r.Context(), api_context.TitleKey, title)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
