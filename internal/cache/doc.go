// Package cache provides the memo table behind the geometry mapper.
//
// Memo[K, V] is a generic LRU table with a soft limit: when it grows past
// the limit, the least recently used quarter of the entries is dropped.
//
//	memo := cache.New[*proptree.TransformNode, proptree.Matrix](256)
//	memo.Set(node, m)
//	m, ok := memo.Get(node)
//
// # Thread Safety
//
// Memo does no locking. It is meant to be owned by a single mapper that is
// used within one paint pass on one goroutine.
package cache
