package middleware

import (
	"context"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/pkg/logger"
)

type (
	AuthService interface {
		RoleCheck(ctx context.Context, token string) (*models.Operator, error)
	}

	Middleware struct {
		auth AuthService
		log  logger.Logger
	}
)

// NewMiddleware creates the middleware set. auth may be nil, then every
// request is anonymous and protected routes answer 401.
func NewMiddleware(auth AuthService, log logger.Logger) *Middleware {
	return &Middleware{
		auth: auth,
		log:  log,
	}
}
