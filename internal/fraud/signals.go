package fraud

import (
	"fmt"
	"strconv"
)

// Signal identifies one triggered heuristic
type Signal int

const (
	SignalEmailAlias Signal = iota + 1
	SignalDisposableEmail
	SignalBotActivity
	SignalSpeedRun
	SignalRapidCompletion
	SignalCAFlagged
	SignalSybil
)

var signalKeys = map[Signal]string{
	SignalEmailAlias:      "email_alias",
	SignalDisposableEmail: "disposable_email",
	SignalBotActivity:     "bot_activity",
	SignalSpeedRun:        "speed_run",
	SignalRapidCompletion: "rapid_completion",
	SignalCAFlagged:       "ca_flagged",
	SignalSybil:           "sybil",
}

// String returns the stable machine key of the signal
func (s Signal) String() string {
	if key, ok := signalKeys[s]; ok {
		return key
	}
	return "signal_" + strconv.Itoa(int(s))
}

// MarshalText encodes the signal as its key
func (s Signal) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a signal key
func (s *Signal) UnmarshalText(text []byte) error {
	for sig, key := range signalKeys {
		if key == string(text) {
			*s = sig
			return nil
		}
	}
	return fmt.Errorf("unknown fraud signal %q", text)
}

// formatHours renders a threshold the way reason labels show it: "30min", "4h"
func formatHours(h float64) string {
	if h < 1 {
		return strconv.FormatFloat(h*60, 'f', -1, 64) + "min"
	}
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// label returns the human-readable reason text of a signal
func (r Rules) label(s Signal) string {
	switch s {
	case SignalEmailAlias:
		return "Email alias"
	case SignalDisposableEmail:
		return "Disposable email"
	case SignalBotActivity:
		return fmt.Sprintf("Bot activity (<%s)", formatHours(r.BotHours))
	case SignalSpeedRun:
		return fmt.Sprintf("Speed run (<%s)", formatHours(r.SpeedRunHours))
	case SignalRapidCompletion:
		return "Rapid completion"
	case SignalCAFlagged:
		return "CA flagged"
	case SignalSybil:
		return "Sybil"
	}
	return s.String()
}

func sybilLabel(accounts int) string {
	return fmt.Sprintf("Sybil (%d accounts)", accounts)
}
