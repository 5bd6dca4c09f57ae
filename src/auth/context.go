package auth

import "context"

type contextKey string

// CallerKey marks a request that passed ingest-token authentication.
const CallerKey contextKey = "caller"

// Caller identifies the authenticated reporting client.
type Caller struct {
	Service string
}

func GetCallerFromContext(ctx context.Context) (*Caller, bool) {
	caller, ok := ctx.Value(CallerKey).(*Caller)
	return caller, ok
}

func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}
