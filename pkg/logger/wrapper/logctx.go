package wrap

import (
	"context"
)

type (
	// LogCtx holds contextual information for logging
	LogCtx struct {
		Action    string
		RequestID string
		DeviceID  string
		Subject   string
	}

	logCtxKeyStruct struct{}
)

// LogCtxKey is the context key for LogCtx values
var LogCtxKey = &logCtxKeyStruct{}

// FromContext returns the LogCtx stored in ctx or an empty one.
func FromContext(ctx context.Context) LogCtx {
	if lc, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		return lc
	}
	return LogCtx{}
}

// WithLogCtx merges newLc into the LogCtx already stored in ctx.
// Empty fields of newLc keep the previous values.
func WithLogCtx(ctx context.Context, newLc LogCtx) context.Context {
	lc := FromContext(ctx)
	if newLc.Action != "" {
		lc.Action = newLc.Action
	}
	if newLc.RequestID != "" {
		lc.RequestID = newLc.RequestID
	}
	if newLc.DeviceID != "" {
		lc.DeviceID = newLc.DeviceID
	}
	if newLc.Subject != "" {
		lc.Subject = newLc.Subject
	}
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithAction sets the Action of the LogCtx within the context
func WithAction(ctx context.Context, action string) context.Context {
	lc := FromContext(ctx)
	lc.Action = action
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithRequestID sets the RequestID of the LogCtx within the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	lc := FromContext(ctx)
	lc.RequestID = requestID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithDeviceID sets the DeviceID of the LogCtx within the context
func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	lc := FromContext(ctx)
	lc.DeviceID = deviceID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithSubject sets the authenticated operator of the LogCtx within the context
func WithSubject(ctx context.Context, subject string) context.Context {
	lc := FromContext(ctx)
	lc.Subject = subject
	return context.WithValue(ctx, LogCtxKey, lc)
}
