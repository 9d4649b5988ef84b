package fraud

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules holds the thresholds and scores of the heuristics
type Rules struct {
	AliasScore        int      `yaml:"alias_score"`
	DisposableScore   int      `yaml:"disposable_score"`
	DisposableDomains []string `yaml:"disposable_domains"`
	BotHours          float64  `yaml:"bot_hours"`
	BotScore          int      `yaml:"bot_score"`
	SpeedRunHours     float64  `yaml:"speed_run_hours"`
	SpeedRunScore     int      `yaml:"speed_run_score"`
	RapidHours        float64  `yaml:"rapid_hours"`
	RapidScore        int      `yaml:"rapid_score"`
	CAFlagScore       int      `yaml:"ca_flag_score"`
	SybilScore        int      `yaml:"sybil_score"`
	MaxScore          int      `yaml:"max_score"`
}

// DefaultRules returns the built-in heuristic configuration
func DefaultRules() Rules {
	return Rules{
		AliasScore:      15,
		DisposableScore: 40,
		DisposableDomains: []string{
			"yopmail.com",
			"tempmail.com",
			"guerrillamail.com",
			"mailinator.com",
			"10minutemail.com",
		},
		BotHours:      0.5,
		BotScore:      60,
		SpeedRunHours: 4,
		SpeedRunScore: 30,
		RapidHours:    5,
		RapidScore:    15,
		CAFlagScore:   25,
		SybilScore:    35,
		MaxScore:      100,
	}
}

// LoadRules reads a YAML rule file over the defaults. An empty path returns
// the defaults. Keys absent from the file keep their default value.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read fraud rules %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("failed to parse fraud rules %s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid fraud rules %s: %w", path, err)
	}

	for i, d := range rules.DisposableDomains {
		rules.DisposableDomains[i] = strings.ToLower(strings.TrimSpace(d))
	}
	return rules, nil
}

// Validate checks that speed tiers are ascending and scores are sane
func (r Rules) Validate() error {
	if r.BotHours <= 0 || r.BotHours >= r.SpeedRunHours || r.SpeedRunHours >= r.RapidHours {
		return fmt.Errorf("speed tiers must satisfy 0 < bot_hours < speed_run_hours < rapid_hours")
	}
	if r.MaxScore <= 0 {
		return fmt.Errorf("max_score must be positive")
	}
	for name, score := range map[string]int{
		"alias_score":      r.AliasScore,
		"disposable_score": r.DisposableScore,
		"bot_score":        r.BotScore,
		"speed_run_score":  r.SpeedRunScore,
		"rapid_score":      r.RapidScore,
		"ca_flag_score":    r.CAFlagScore,
		"sybil_score":      r.SybilScore,
	} {
		if score < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}
