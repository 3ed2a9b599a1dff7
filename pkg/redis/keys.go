package redis

import "strings"

const defaultNamespace = "bb"

// Keyspace builds the namespaced keys every BuyBuddy feature stores in redis.
// Empty parts are skipped.
type Keyspace struct {
	Namespace string
}

func (k Keyspace) key(parts ...string) string {
	ns := strings.TrimSpace(k.Namespace)
	if ns == "" {
		ns = defaultNamespace
	}
	out := []string{ns}
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, ":")
}

// IdempotencyKey holds the replay record of one Idempotency-Key within scope.
func (k Keyspace) IdempotencyKey(scope, id string) string {
	return k.key("idempotency", scope, id)
}

// RateLimitKey holds a fixed-window counter.
func (k Keyspace) RateLimitKey(scope string) string {
	return k.key("rate_limit", scope)
}

// AccessSessionKey maps an access token id to its refresh token.
func (k Keyspace) AccessSessionKey(accessID string) string {
	return k.key("session", "access", accessID)
}

// CheckoutIntentKey holds a user's in-flight checkout.
func (k Keyspace) CheckoutIntentKey(userID string) string {
	return k.key("checkout", "intent", userID)
}
