package middleware

import "net/http"

func SecurityHeaders(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hfn)
}
