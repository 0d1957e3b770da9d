package preview

import (
	"net"
	"net/http"
	"strings"
	"sync"
)

// ViewerLimiter caps how many viewers watch the preview at once, overall and
// per client address. Zero disables a cap.
type ViewerLimiter struct {
	perAddress int
	overall    int

	mu      sync.Mutex
	viewers map[string]int
	total   int
}

// NewViewerLimiter uses the MaxViewersPerIP and MaxViewers settings.
func NewViewerLimiter(perAddress, overall int) *ViewerLimiter {
	return &ViewerLimiter{
		perAddress: perAddress,
		overall:    overall,
		viewers:    make(map[string]int),
	}
}

// Acquire reserves a viewer slot for addr. The returned release frees it and
// is safe to call more than once.
func (l *ViewerLimiter) Acquire(addr string) (release func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.overall > 0 && l.total >= l.overall {
		return nil, false
	}
	if l.perAddress > 0 && l.viewers[addr] >= l.perAddress {
		return nil, false
	}
	l.viewers[addr]++
	l.total++

	var once sync.Once
	return func() { once.Do(func() { l.release(addr) }) }, true
}

func (l *ViewerLimiter) release(addr string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.viewers[addr]--; l.viewers[addr] <= 0 {
		delete(l.viewers, addr)
	}
	l.total--
}

// Stats returns the number of viewers and of distinct addresses they come from.
func (l *ViewerLimiter) Stats() (viewers, addresses int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total, len(l.viewers)
}

// clientIP prefers X-Forwarded-For, then X-Real-IP, then the remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
