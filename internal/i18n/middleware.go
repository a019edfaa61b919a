package i18n

import "net/http"

// Middleware injects a localizer and the negotiated language code into
// every request context. The language comes from the "lang" query
// parameter, then the Accept-Language header, then the configured default.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query, header := r.URL.Query().Get("lang"), r.Header.Get("Accept-Language")
			ctx := WithLocalizer(r.Context(), NewLocalizer(query, header))
			ctx = WithLanguage(ctx, MatchLanguage(query, header))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
