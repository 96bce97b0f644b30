package core

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
)

type PageHandler func(r *http.Request) (Page, error)

// Route binds a page handler to a method and path. Title, when set, is the
// document title the page is expected to render with.
type Route struct {
	Method  string
	Path    string
	Title   string
	Handler PageHandler
}

type RuntimeContext struct {
	Env  string
	Live bool
}

type Router struct {
	config   Config
	runtime  RuntimeContext
	renderer *Renderer
	cache    *PageCache
	logger   *Logger
	routes   []Route
}

func NewRouter(config Config, rt RuntimeContext, logger *Logger) (*Router, error) {
	var stylesheets []string
	if config.Pico {
		stylesheets = append(stylesheets, PicoStylesheet)
	}
	renderer, err := NewRenderer(config.Minify, stylesheets...)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewLogger(nil, config.DebugLogs)
	}
	return &Router{
		config:   config,
		runtime:  rt,
		renderer: renderer,
		cache:    NewPageCache(),
		logger:   logger,
	}, nil
}

func (r *Router) Handle(method, path string, h PageHandler) {
	r.routes = append(r.routes, Route{Method: method, Path: normalisePath(path), Handler: h})
}

func (r *Router) Get(path string, h PageHandler) {
	r.Handle(http.MethodGet, path, h)
}

// GetTitled registers a GET route whose page must render with title.
func (r *Router) GetTitled(path, title string, h PageHandler) {
	r.routes = append(r.routes, Route{Method: http.MethodGet, Path: normalisePath(path), Title: title, Handler: h})
}

func (r *Router) Routes() []Route {
	return r.routes
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := normalisePath(req.URL.Path)

	var allowed []string
	for _, route := range r.routes {
		if route.Path != path {
			continue
		}
		if route.Method == req.Method || (route.Method == http.MethodGet && req.Method == http.MethodHead) {
			r.servePage(w, req, route)
			return
		}
		allowed = append(allowed, route.Method)
		if route.Method == http.MethodGet {
			allowed = append(allowed, http.MethodHead)
		}
	}

	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	http.Error(w, "Not Found", http.StatusNotFound)
}

func (r *Router) cacheEnabled() bool {
	return r.config.CacheEnabled && !r.runtime.Live
}

func (r *Router) servePage(w http.ResponseWriter, req *http.Request, route Route) {
	key := route.Method + " " + route.Path

	if r.cacheEnabled() {
		if cached, ok := r.cache.Get(key); ok {
			r.writePage(w, req, route, cached, "HIT")
			return
		}
	}

	page, err := route.Handler(req)
	if err != nil {
		if IsNotFoundError(err) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		r.logger.Errorf("%s %s: %v", req.Method, route.Path, err)
		http.Error(w, "Server logic error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	page.Live = r.runtime.Live

	var buf bytes.Buffer
	if err := r.renderer.Render(&buf, page); err != nil {
		r.logger.Errorf("render %s: %v", route.Path, err)
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	cached, err := NewCachedPage(buf.Bytes())
	if err != nil {
		http.Error(w, "Cache error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if r.cacheEnabled() {
		r.cache.Put(key, cached)
	}

	r.writePage(w, req, route, cached, "MISS")
}

func (r *Router) writePage(w http.ResponseWriter, req *http.Request, route Route, page *CachedPage, cacheStatus string) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("ETag", page.ETag)
	h.Set("Vary", "Accept-Encoding")
	if r.runtime.Live {
		h.Set("Cache-Control", "no-store")
	} else {
		h.Set("Cache-Control", "no-cache")
	}
	if r.config.DebugHeaders {
		h.Set("X-Route", route.Path)
		h.Set("X-Cache", cacheStatus)
	}

	if etagMatches(req.Header.Get("If-None-Match"), page.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	body := page.HTML
	if acceptsGzip(req) {
		h.Set("Content-Encoding", "gzip")
		body = page.Gzip
	}
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)

	if req.Method == http.MethodHead {
		return
	}
	w.Write(body)
}

func normalisePath(p string) string {
	return "/" + strings.Trim(p, "/")
}

// etagMatches applies the weak comparison used for If-None-Match: the header
// may be "*" or a comma-separated list of tags, each optionally W/-prefixed.
func etagMatches(header, etag string) bool {
	if header == "" || etag == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" || strings.TrimPrefix(tag, "W/") == want {
			return true
		}
	}
	return false
}

// acceptsGzip reports whether Accept-Encoding allows gzip. An explicit gzip
// entry wins over "*"; a q-value of 0 refuses the coding.
func acceptsGzip(r *http.Request) bool {
	gzipQ, wildcardQ := -1.0, -1.0
	for _, part := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		coding, q := parseCoding(part)
		switch coding {
		case "gzip", "x-gzip":
			gzipQ = q
		case "*":
			wildcardQ = q
		}
	}
	if gzipQ >= 0 {
		return gzipQ > 0
	}
	return wildcardQ > 0
}

func parseCoding(part string) (string, float64) {
	fields := strings.Split(part, ";")
	coding := strings.ToLower(strings.TrimSpace(fields[0]))
	q := 1.0
	for _, param := range fields[1:] {
		name, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "q") {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return coding, 0
		}
		q = v
	}
	return coding, q
}
