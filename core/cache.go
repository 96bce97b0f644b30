package core

import (
	"bytes"
	"compress/gzip"
	"crypto/md5"
	"encoding/hex"
	"sync"
)

type CachedPage struct {
	HTML []byte
	Gzip []byte
	ETag string
}

func NewCachedPage(html []byte) (*CachedPage, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(html); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}

	return &CachedPage{
		HTML: html,
		Gzip: buf.Bytes(),
		ETag: generateETag(html),
	}, nil
}

// PageCache holds rendered pages in memory for the life of the process.
type PageCache struct {
	mu      sync.RWMutex
	entries map[string]*CachedPage
}

func NewPageCache() *PageCache {
	return &PageCache{entries: make(map[string]*CachedPage)}
}

func (c *PageCache) Get(key string) (*CachedPage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.entries[key]
	return p, ok
}

func (c *PageCache) Put(key string, page *CachedPage) {
	c.mu.Lock()
	c.entries[key] = page
	c.mu.Unlock()
}

func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func generateETag(data []byte) string {
	sum := md5.Sum(data)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}
