package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestLogging returns middleware that tags each request with an ID and
// logs it on completion.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := uuid.NewString()
			w.Header().Set("X-Request-ID", id)
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"ip", clientIP(r),
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// TokenAuth returns middleware that validates the token query parameter
// the exporter is configured to append.
func TokenAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.URL.Query().Get("token")
			if token == "" {
				http.Error(w, `{"error":"missing token"}`, http.StatusUnauthorized)
				return
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IPWhitelist returns middleware that rejects clients outside the
// whitelist. An empty whitelist allows everyone.
func IPWhitelist(whitelist []string, log *slog.Logger) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(whitelist))
	for _, ip := range whitelist {
		allowed[ip] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if len(allowed) == 0 {
				log.Debug("ip whitelist empty, allowing", "ip", ip)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed[ip] {
				log.Warn("ip rejected", "ip", ip, "path", r.URL.Path)
				http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the caller's address: first X-Forwarded-For entry,
// then X-Real-IP, then the socket address. IPv4-mapped IPv6 addresses are
// unwrapped and loopback reads as "localhost".
func clientIP(r *http.Request) string {
	ip := ""
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip = strings.TrimSpace(strings.Split(xff, ",")[0])
	} else if xri := r.Header.Get("X-Real-IP"); xri != "" {
		ip = strings.TrimSpace(xri)
	} else {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ip = host
	}
	ip = strings.TrimPrefix(ip, "::ffff:")
	if ip == "::1" || ip == "127.0.0.1" {
		return "localhost"
	}
	return ip
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
