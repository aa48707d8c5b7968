package kv

import "context"

// namespaced prefixes every key so multiple sessions can share one
// underlying store without colliding.
type namespaced struct {
	inner  Store
	prefix string
}

// Namespaced wraps a store with a key prefix. An empty prefix returns
// the store unchanged.
func Namespaced(inner Store, prefix string) Store {
	if prefix == "" {
		return inner
	}
	return &namespaced{inner: inner, prefix: prefix}
}

func (n *namespaced) key(key string) string {
	return n.prefix + ":" + key
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Get(ctx, n.key(key))
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.inner.Set(ctx, n.key(key), value)
}

func (n *namespaced) Remove(ctx context.Context, key string) error {
	return n.inner.Remove(ctx, n.key(key))
}
