package service

import (
	"sync"
	"time"

	"github.com/ecoshop/storefront/internal/core/domain"
)

const defaultBannerTTL = 3 * time.Second

// Notices holds the single banner currently on screen. A newer banner
// replaces the previous one; expired banners are never returned.
type Notices struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	current *domain.Banner
}

// NewNotices returns a Notices whose banners last ttl by default.
func NewNotices(ttl time.Duration) *Notices {
	if ttl <= 0 {
		ttl = defaultBannerTTL
	}
	return &Notices{ttl: ttl, now: time.Now}
}

// Success shows a success banner for the default duration.
func (n *Notices) Success(msg string) domain.Banner {
	return n.Show(domain.BannerSuccess, msg, 0)
}

// Error shows an error banner for the default duration.
func (n *Notices) Error(msg string) domain.Banner {
	return n.Show(domain.BannerError, msg, 0)
}

// Show replaces the current banner. A non-positive ttl uses the default.
func (n *Notices) Show(kind domain.BannerKind, msg string, ttl time.Duration) domain.Banner {
	if ttl <= 0 {
		ttl = n.ttl
	}
	b := domain.Banner{Kind: kind, Message: msg, ExpiresAt: n.now().Add(ttl)}
	n.mu.Lock()
	n.current = &b
	n.mu.Unlock()
	return b
}

// Current returns the live banner, if any.
func (n *Notices) Current() (domain.Banner, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return domain.Banner{}, false
	}
	if n.current.Expired(n.now()) {
		n.current = nil
		return domain.Banner{}, false
	}
	return *n.current, true
}

// Dismiss removes the current banner.
func (n *Notices) Dismiss() {
	n.mu.Lock()
	n.current = nil
	n.mu.Unlock()
}
