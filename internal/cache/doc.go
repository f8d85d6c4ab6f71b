// Package cache implements the in-memory content store that sits between the
// HTTP pipeline and the memes directory. Entries are bounded by a fixed
// capacity with LRU eviction and expire lazily after a configurable TTL:
// expiration is detected on access rather than by a background sweeper, so an
// idle expired entry keeps its slot until it is next touched or evicted by
// capacity pressure. All bookkeeping is guarded by a single mutex; returned
// entries are value copies whose body bytes are shared read-only with
// response writers.
package cache
