package redis

import "strings"

const keyNamespace = "ff"

// keyspace builds every key the service writes as ff:<area>:<parts...>.
// Empty parts are skipped.
type keyspace struct{}

func (keyspace) build(area string, parts ...string) string {
	var b strings.Builder
	b.WriteString(keyNamespace)
	b.WriteByte(':')
	b.WriteString(area)
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteByte(':')
			b.WriteString(part)
		}
	}
	return b.String()
}

func (k keyspace) IdempotencyKey(scope, id string) string {
	return k.build("idempotency", scope, id)
}

func (k keyspace) RateLimitKey(scope string) string {
	return k.build("rate_limit", scope)
}

func (k keyspace) CartKey(customerID string) string {
	return k.build("cart", customerID)
}

func (k keyspace) CatalogCacheKey(name string) string {
	return k.build("catalog", name)
}

// AccessSessionKey holds the refresh session bound to an access token jti.
func (k keyspace) AccessSessionKey(accessID string) string {
	return k.build("session", "access", accessID)
}
