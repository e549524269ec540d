package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
)

// Auth validates the bearer token and injects the operator into the context.
// Requests without a token are anonymous; they can only reach public routes.
func (h *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if header == "" || h.auth == nil {
			next.ServeHTTP(w, r.WithContext(models.WithOperator(ctx, models.AnonymousOperator())))
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}

		operator, err := h.auth.RoleCheck(ctx, token)
		if err != nil || operator == nil {
			h.log.Warn(wrap.ErrorCtx(ctx, err), "failed to authenticate operator", "error", fmt.Sprint(err))
			errorResponse(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		ctx = wrap.WithSubject(ctx, operator.Subject)
		next.ServeHTTP(w, r.WithContext(models.WithOperator(ctx, operator)))
	})
}

// RequireRoles allows only operators with one of the given roles.
func (h *Middleware) RequireRoles(next http.HandlerFunc, allowedRoles ...types.UserRole) http.Handler {
	allowed := make(map[types.UserRole]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator := models.OperatorFromContext(r.Context())
		if operator.IsAnonymous() {
			errorResponse(w, http.StatusUnauthorized, "authorization required")
			return
		}
		if len(allowed) > 0 {
			if _, ok := allowed[operator.Role]; !ok {
				errorResponse(w, http.StatusForbidden, "forbidden: insufficient role")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}
