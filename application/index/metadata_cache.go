package index

import "sync"

// MetadataCache is a passthrough from session id to the session's
// metadata map, kept so metadata reads skip the entity graph walk.
type MetadataCache struct {
	mu       sync.RWMutex
	metadata map[string]map[string]any
}

// NewMetadataCache creates an empty metadata cache
func NewMetadataCache() *MetadataCache {
	return &MetadataCache{
		metadata: make(map[string]map[string]any),
	}
}

// Rebuild replaces the whole cache
func (c *MetadataCache) Rebuild(metadata map[string]map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metadata = make(map[string]map[string]any, len(metadata))
	for id, m := range metadata {
		c.metadata[id] = cloneMap(m)
	}
}

// Put stores the session's metadata snapshot
func (c *MetadataCache) Put(sessionID string, metadata map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metadata[sessionID] = cloneMap(metadata)
}

// Get returns a copy of the session's metadata and whether it is cached
func (c *MetadataCache) Get(sessionID string) (map[string]any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.metadata[sessionID]
	if !ok {
		return nil, false
	}
	return cloneMap(m), true
}

// Remove drops the session's metadata snapshot
func (c *MetadataCache) Remove(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.metadata, sessionID)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
