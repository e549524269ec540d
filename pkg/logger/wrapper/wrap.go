package wrap

import (
	"context"
)

// Error attaches the LogCtx of ctx to err. Nil errors stay nil.
// Wrapping an already wrapped error keeps the chain and refreshes the captured context.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: FromContext(ctx),
	}
}
