package cache

import "time"

// expiryPolicy 统一计算过期时间，内存与磁盘两层命中都走同一判定。
type expiryPolicy struct {
	now func() time.Time
}

func newExpiryPolicy(clock func() time.Time) expiryPolicy {
	if clock == nil {
		clock = time.Now
	}
	return expiryPolicy{now: clock}
}

// ExpiresAt 返回 now + ttl 的毫秒时间戳。
func (p expiryPolicy) ExpiresAt(ttl time.Duration) int64 {
	return p.now().Add(ttl).UnixMilli()
}

// Expired 仅在 expires 严格早于当前毫秒时返回 true。
func (p expiryPolicy) Expired(expires int64) bool {
	return expires < p.now().UnixMilli()
}
