package core

import (
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

type Logger struct {
	out   *log.Logger
	debug bool
}

func NewLogger(w io.Writer, debug bool) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{out: log.New(w, "", log.LstdFlags), debug: debug}
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.debug {
		l.out.Printf("[DEBUG] "+format, v...)
	}
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.out.Printf("[INFO] "+format, v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.out.Printf("[WARN] "+format, v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.out.Printf("[ERROR] "+format, v...)
}

// RequestLogger tags each request with X-Request-ID and logs the outcome.
// Server errors are always logged; everything else only in debug mode.
func RequestLogger(logger *Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.Status() >= http.StatusInternalServerError {
			logger.Errorf("%s %s %s → %d (%s)", id, r.Method, r.URL.Path, rec.Status(), time.Since(start))
			return
		}
		logger.Debugf("%s %s %s → %d (%s)", id, r.Method, r.URL.Path, rec.Status(), time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
