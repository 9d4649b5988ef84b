package resilience

import (
	"time"

	"github.com/richxcame/devcert-dashboard/pkg/config"
)

const defaultBreakerName = "record-store"

// Settings tunes a CircuitBreaker guarding the record store
type Settings struct {
	Name             string
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
	SuccessThreshold uint32
}

// DefaultSettings trips after five consecutive Firestore failures and lets a
// single probe through after thirty seconds.
func DefaultSettings(name string) Settings {
	return Settings{
		Name:             name,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 1,
	}.normalized()
}

// SettingsFromConfig overlays the positive BREAKER_* values on DefaultSettings
func SettingsFromConfig(name string, cfg config.BreakerConfig) Settings {
	s := DefaultSettings(name)
	if cfg.IntervalSeconds > 0 {
		s.Interval = time.Duration(cfg.IntervalSeconds) * time.Second
	}
	if cfg.TimeoutSeconds > 0 {
		s.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.FailureThreshold > 0 {
		s.FailureThreshold = uint32(cfg.FailureThreshold)
	}
	if cfg.SuccessThreshold > 0 {
		s.SuccessThreshold = uint32(cfg.SuccessThreshold)
	}
	return s.normalized()
}

// normalized fills zero fields. A zero FailureThreshold would trip on the
// very first call, and a zero Interval makes gobreaker keep failure counts
// forever while closed.
func (s Settings) normalized() Settings {
	if s.Name == "" {
		s.Name = defaultBreakerName
	}
	if s.Interval <= 0 {
		s.Interval = time.Minute
	}
	if s.Timeout < time.Second {
		s.Timeout = 30 * time.Second
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.SuccessThreshold == 0 {
		s.SuccessThreshold = 1
	}
	return s
}
