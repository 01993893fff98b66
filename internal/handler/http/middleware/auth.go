package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts only verified access tokens and attaches the caller's
// user.Identity to the request context.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if tokenType != jwt.TokenTypeAccess || !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		isStaff, _ := claims["is_staff"].(bool)

		ctx := user.WithIdentity(r.Context(), user.Identity{UserID: userID, IsStaff: isStaff})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StaffOnly must run after AuthRequired.
func StaffOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := user.IdentityFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if !identity.IsStaff {
			response.HandleError(w, user.ErrStaffPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
