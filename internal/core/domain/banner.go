package domain

import "time"

// BannerKind selects how a banner is presented.
type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

// Banner is a dismissable, time-limited message shown after an action.
type Banner struct {
	Kind      BannerKind `json:"kind"`
	Message   string     `json:"message"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Expired reports whether the banner should no longer be shown at now.
func (b Banner) Expired(now time.Time) bool {
	return !now.Before(b.ExpiresAt)
}
