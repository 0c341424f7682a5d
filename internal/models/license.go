// internal/models/license.go
package models

import (
	"math"
	"time"
)

const (
	SecondsInDay = int64(24 * 60 * 60)

	// Renewal stays possible for this long after the nominal expiration.
	GracePeriod = 3 * SecondsInDay

	// MaxExpiration keeps Expiration+GracePeriod representable as int64.
	MaxExpiration = math.MaxInt64 - GracePeriod
)

type License struct {
	License    string `json:"license" bson:"license"`
	Wallet     string `json:"wallet" bson:"wallet"`
	Activated  bool   `json:"activated" bson:"activated"`
	Expiration *int64 `json:"expiration" bson:"expiration"`
}

// Clone returns a copy that shares no pointers with l.
func (l *License) Clone() *License {
	if l == nil {
		return nil
	}
	c := *l
	if l.Expiration != nil {
		exp := *l.Expiration
		c.Expiration = &exp
	}
	return &c
}

// LicenseFilter selects the record a conditional update may touch. Nil
// fields are not part of the match.
type LicenseFilter struct {
	License    string
	Activated  *bool
	Expiration *int64
}

// LicensePatch lists the fields a conditional update sets.
type LicensePatch struct {
	Activated  *bool
	Expiration *int64
}

func (f LicenseFilter) Matches(l *License) bool {
	if l == nil || l.License != f.License {
		return false
	}
	if f.Activated != nil && l.Activated != *f.Activated {
		return false
	}
	if f.Expiration != nil {
		if l.Expiration == nil || *l.Expiration != *f.Expiration {
			return false
		}
	}
	return true
}

// Apply writes the patch into l and reports whether anything changed.
func (p LicensePatch) Apply(l *License) bool {
	changed := false
	if p.Activated != nil && l.Activated != *p.Activated {
		l.Activated = *p.Activated
		changed = true
	}
	if p.Expiration != nil && (l.Expiration == nil || *l.Expiration != *p.Expiration) {
		exp := *p.Expiration
		l.Expiration = &exp
		changed = true
	}
	return changed
}

type LicenseState string

const (
	LicenseStateUnactivated LicenseState = "unactivated"
	LicenseStateActive      LicenseState = "active"
	LicenseStateExpired     LicenseState = "expired"
)

// StateAt derives the lifecycle state of l at now. A license inside the
// grace window still counts as active.
func StateAt(l *License, now time.Time) LicenseState {
	if !l.Activated || l.Expiration == nil {
		return LicenseStateUnactivated
	}
	if now.Unix()-GracePeriod > *l.Expiration {
		return LicenseStateExpired
	}
	return LicenseStateActive
}

// ExtendExpiration moves base forward by days. It reports false when days is
// not positive or the result would pass MaxExpiration.
func ExtendExpiration(base, days int64) (int64, bool) {
	if days <= 0 || base > MaxExpiration {
		return 0, false
	}
	if days > (MaxExpiration-max(base, 0))/SecondsInDay {
		return 0, false
	}
	return base + days*SecondsInDay, true
}

func Bool(v bool) *bool { return &v }

func Int64(v int64) *int64 { return &v }
