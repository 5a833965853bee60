// Package cache implements a persistent key-value cache with time-based
// expiration. Entries live in two tiers: an in-process map used as the fast
// path, and a flat directory of records named by the hex digest of their key.
// Each record carries its own absolute expiry so that another Cache over the
// same directory reproduces identical expiration decisions. Expired entries
// are purged lazily when read; there is no background sweeper and no size
// based eviction.
package cache
