package httpx

import "context"

type ctxKey string

// CtxKeyAccountID carries the authenticated account id resolved from a
// session token.
const CtxKeyAccountID ctxKey = "account_id"

// AccountIDFromContext returns the authenticated account id, or "" when the
// request carried no valid session token.
func AccountIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyAccountID).(string); ok {
		return v
	}
	return ""
}
