package api

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/time/rate"

	"github.com/msugsc-shs/research-archive/pkg/log"
)

// ContentSecurityPolicy allows the site's own assets plus Google Fonts.
const ContentSecurityPolicy = "default-src 'self'; " +
	"base-uri 'self'; " +
	"font-src 'self' fonts.gstatic.com data:; " +
	"form-action 'self'; " +
	"frame-ancestors 'self'; " +
	"img-src 'self' data:; " +
	"object-src 'none'; " +
	"script-src 'self' 'unsafe-inline'; " +
	"script-src-attr 'none'; " +
	"style-src 'self' fonts.googleapis.com; " +
	"upgrade-insecure-requests"

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so that the first one listed runs first.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// SecurityHeaders sets the response headers every page carries.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", ContentSecurityPolicy)
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		h.Set("Cross-Origin-Resource-Policy", "same-origin")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("X-XSS-Protection", "0")
		next.ServeHTTP(w, r)
	})
}

// Compress gzips responses for clients that accept it.
func Compress(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type requestIDKey struct{}

// RequestID returns the id assigned to the request by RequestLogger.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogger tags each request with an X-Request-ID (kept when the
// client sends a valid one) and logs one line per request. Forwarding
// headers are only logged as the client address when trustProxy is set.
func RequestLogger(logger *log.Logger, trustProxy bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			logger.Infof("%s %s %d %dB %s ip=%s id=%s",
				r.Method, r.URL.RequestURI(), rec.status, rec.bytes,
				time.Since(start).Round(time.Microsecond), ClientIP(r, trustProxy), id)
		})
	}
}

// ClientIP returns the address of the client. X-Forwarded-For and X-Real-IP
// are honored only when trustProxy is set, that is when the server sits
// behind a reverse proxy that overwrites them. Otherwise the socket peer
// address is used.
func ClientIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r)
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter allows each client IP a fixed number of requests per window,
// refilled continuously.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	interval time.Duration
	burst    int
	idle     time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time

	trustProxy bool
}

// NewRateLimiter allows requests per window for every client IP, keyed as
// ClientIP does with trustProxy. Call Stop to end the cleanup goroutine.
func NewRateLimiter(requests int, window time.Duration, trustProxy bool) *RateLimiter {
	rl := &RateLimiter{
		limiters:   make(map[string]*ipLimiter),
		interval:   window / time.Duration(requests),
		burst:      requests,
		idle:       max(window*2, 5*time.Minute),
		stop:       make(chan struct{}),
		now:        time.Now,
		trustProxy: trustProxy,
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if l, ok := rl.limiters[ip]; ok {
		l.lastSeen = rl.now()
		return l.limiter
	}
	l := rate.NewLimiter(rate.Every(rl.interval), rl.burst)
	rl.limiters[ip] = &ipLimiter{limiter: l, lastSeen: rl.now()}
	return l
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup forgets clients idle for longer than the idle period.
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for ip, l := range rl.limiters {
		if now.Sub(l.lastSeen) > rl.idle {
			delete(rl.limiters, ip)
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Middleware rejects clients over their limit with 429 and a Retry-After
// header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := rl.limiter(ClientIP(r, rl.trustProxy))
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(int(l.Tokens())-1, 0)))

		if !l.Allow() {
			retryAfter := max(int(math.Ceil(rl.interval.Seconds())), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
