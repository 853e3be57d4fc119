package middleware

import "net/http"

// CORSMiddleware answers preflight requests and exposes Content-Disposition so
// browser clients can read the appointment slip file name.
type CORSMiddleware struct {
	allowedMethods string
	allowedHeaders string
	exposedHeaders string
}

func NewCORSMiddleware() *CORSMiddleware {
	return &CORSMiddleware{
		allowedMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		allowedHeaders: "Content-Type, Authorization",
		exposedHeaders: "Content-Disposition",
	}
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", m.allowedMethods)
		h.Set("Access-Control-Allow-Headers", m.allowedHeaders)
		h.Set("Access-Control-Expose-Headers", m.exposedHeaders)

		if req.Method == http.MethodOptions {
			h.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, req)
	})
}
