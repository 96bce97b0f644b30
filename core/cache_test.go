package core

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"sync"
	"testing"
)

func TestNewCachedPage_CompressesAndTags(t *testing.T) {
	html := []byte("<html><body>Hello</body></html>")

	page, err := NewCachedPage(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gr, err := gzip.NewReader(bytes.NewReader(page.Gzip))
	if err != nil {
		t.Fatalf("invalid gzip data: %v", err)
	}
	defer gr.Close()

	decompressed, _ := io.ReadAll(gr)
	if !bytes.Equal(decompressed, html) {
		t.Errorf("expected %q, got %q", html, decompressed)
	}
	if page.ETag == "" || page.ETag[0] != '"' {
		t.Errorf("expected quoted ETag, got %q", page.ETag)
	}
}

func TestGenerateETag_ConsistentHash(t *testing.T) {
	data := []byte("<html>Hi</html>")
	if generateETag(data) != generateETag(data) {
		t.Error("ETag hash inconsistent")
	}
	if generateETag(data) == generateETag([]byte("<html>Bye</html>")) {
		t.Error("expected different content to produce different ETags")
	}
}

func TestPageCache_GetPut(t *testing.T) {
	c := NewPageCache()

	if _, ok := c.Get("GET /"); ok {
		t.Fatal("expected empty cache miss")
	}

	page, _ := NewCachedPage([]byte("x"))
	c.Put("GET /", page)

	got, ok := c.Get("GET /")
	if !ok || got != page {
		t.Fatal("expected cached page to be returned")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}

func TestPageCache_ConcurrentAccess(t *testing.T) {
	c := NewPageCache()
	page, _ := NewCachedPage([]byte("x"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("GET /%d", i%5)
			c.Put(key, page)
			c.Get(key)
		}(i)
	}
	wg.Wait()

	if c.Len() != 5 {
		t.Errorf("expected 5 entries, got %d", c.Len())
	}
}
