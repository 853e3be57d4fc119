package middleware

import (
	"net/http"
	"slices"

	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/pkg/response"
)

// RequireRole admits callers whose role claim is one of allowed. The role is
// read from the context AuthMiddleware populated; denied callers get 403 with
// the given message.
func RequireRole(message string, allowed ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			if !slices.Contains(allowed, roleID) {
				response.Forbidden(w, message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole("Only admins can access this endpoint.", entity.RoleIDAdmin)(next)
}

func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole("Only doctors can access this endpoint.", entity.RoleIDDoctor)(next)
}

func RequirePatient(next http.Handler) http.Handler {
	return RequireRole("Only patients can access this endpoint.", entity.RoleIDPatient)(next)
}
