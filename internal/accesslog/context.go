package accesslog

import "context"

type clientInfoKey struct{}

// ClientInfo carries transport-level request attribution for the attempt log.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// WithClientInfo returns a context carrying the client's IP and user agent.
// Set by the HTTP middleware; read by the Logger.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

// ClientInfoFrom returns the client info stored in ctx, if any.
func ClientInfoFrom(ctx context.Context) (ClientInfo, bool) {
	info, ok := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info, ok
}
