package models

import (
	"context"

	"github.com/Temutjin2k/smartrash/internal/domain/types"
)

// Operator is the authenticated caller of the operator API
type Operator struct {
	Subject string         `json:"subject"`
	Role    types.UserRole `json:"role"`
}

func AnonymousOperator() *Operator {
	return &Operator{}
}

func (o *Operator) IsAnonymous() bool {
	return o == nil || o.Subject == ""
}

type operatorCtxKey struct{}

func WithOperator(ctx context.Context, o *Operator) context.Context {
	return context.WithValue(ctx, operatorCtxKey{}, o)
}

func OperatorFromContext(ctx context.Context) *Operator {
	o, _ := ctx.Value(operatorCtxKey{}).(*Operator)
	return o
}
