package fraud

import (
	"strings"

	"github.com/richxcame/devcert-dashboard/internal/developers"
)

// Finding is one triggered heuristic and the points it added
type Finding struct {
	Signal Signal `json:"signal"`
	Score  int    `json:"score"`
	Label  string `json:"label"`
}

// CheckResult is the fraud assessment of one record
type CheckResult struct {
	IsSuspicious bool      `json:"is_suspicious"`
	Reason       string    `json:"suspicion_reason"`
	RiskScore    int       `json:"risk_score"`
	Findings     []Finding `json:"findings"`
}

// Signals lists the triggered signal keys in check order
func (r CheckResult) Signals() []string {
	out := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		out = append(out, f.Signal.String())
	}
	return out
}

// RenderReason joins finding labels with "; "
func RenderReason(findings []Finding) string {
	labels := make([]string, 0, len(findings))
	for _, f := range findings {
		labels = append(labels, f.Label)
	}
	return strings.Join(labels, "; ")
}

// Check is a single record-level heuristic
type Check interface {
	Name() string
	Evaluate(rec *developers.DeveloperRecord) (Finding, bool)
}

// Engine scores records with an ordered list of checks
type Engine struct {
	rules  Rules
	checks []Check
}

// NewEngine creates an engine with the standard checks in reporting order
func NewEngine(rules Rules) *Engine {
	e := &Engine{rules: rules}
	e.AddCheck(&aliasCheck{rules: rules})
	e.AddCheck(newDisposableCheck(rules))
	e.AddCheck(&speedCheck{rules: rules})
	e.AddCheck(&caFlagCheck{rules: rules})
	return e
}

// AddCheck appends a check. Checks run in the order they are added.
func (e *Engine) AddCheck(c Check) {
	e.checks = append(e.checks, c)
}

// Rules returns the engine configuration
func (e *Engine) Rules() Rules {
	return e.rules
}

// Score evaluates every check against rec. The risk score saturates at MaxScore.
func (e *Engine) Score(rec developers.DeveloperRecord) CheckResult {
	result := CheckResult{Findings: []Finding{}}
	for _, c := range e.checks {
		if f, ok := c.Evaluate(&rec); ok {
			result.Findings = append(result.Findings, f)
		}
	}
	return e.finish(result)
}

// Assess returns a copy of rec carrying its heuristic assessment
func (e *Engine) Assess(rec developers.DeveloperRecord) developers.DeveloperRecord {
	return apply(rec, e.Score(rec))
}

func (e *Engine) finish(result CheckResult) CheckResult {
	total := 0
	for _, f := range result.Findings {
		total += f.Score
	}
	if total > e.rules.MaxScore {
		total = e.rules.MaxScore
	}
	result.RiskScore = total
	result.IsSuspicious = len(result.Findings) > 0
	result.Reason = RenderReason(result.Findings)
	return result
}

func apply(rec developers.DeveloperRecord, result CheckResult) developers.DeveloperRecord {
	rec.IsSuspicious = result.IsSuspicious
	rec.SuspicionReason = result.Reason
	rec.RiskScore = result.RiskScore
	rec.FraudSignals = result.Signals()
	return rec
}

type aliasCheck struct {
	rules Rules
}

func (c *aliasCheck) Name() string { return "email_alias" }

func (c *aliasCheck) Evaluate(rec *developers.DeveloperRecord) (Finding, bool) {
	if !strings.Contains(rec.Email, "+") {
		return Finding{}, false
	}
	return Finding{Signal: SignalEmailAlias, Score: c.rules.AliasScore, Label: c.rules.label(SignalEmailAlias)}, true
}

type disposableCheck struct {
	rules   Rules
	domains map[string]struct{}
}

func newDisposableCheck(rules Rules) *disposableCheck {
	domains := make(map[string]struct{}, len(rules.DisposableDomains))
	for _, d := range rules.DisposableDomains {
		domains[strings.ToLower(d)] = struct{}{}
	}
	return &disposableCheck{rules: rules, domains: domains}
}

func (c *disposableCheck) Name() string { return "disposable_email" }

func (c *disposableCheck) Evaluate(rec *developers.DeveloperRecord) (Finding, bool) {
	if _, ok := c.domains[emailDomain(rec.Email)]; !ok {
		return Finding{}, false
	}
	return Finding{Signal: SignalDisposableEmail, Score: c.rules.DisposableScore, Label: c.rules.label(SignalDisposableEmail)}, true
}

// emailDomain is the text between the first and second "@", lower-cased
func emailDomain(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) < 2 {
		return ""
	}
	return strings.ToLower(parts[1])
}

// speedCheck fires at most one tier; the strictest matching tier wins
type speedCheck struct {
	rules Rules
}

func (c *speedCheck) Name() string { return "completion_speed" }

func (c *speedCheck) Evaluate(rec *developers.DeveloperRecord) (Finding, bool) {
	hours, ok := rec.CompletionHours()
	if !ok {
		return Finding{}, false
	}

	var sig Signal
	var score int
	switch {
	case hours < c.rules.BotHours:
		sig, score = SignalBotActivity, c.rules.BotScore
	case hours < c.rules.SpeedRunHours:
		sig, score = SignalSpeedRun, c.rules.SpeedRunScore
	case hours < c.rules.RapidHours:
		sig, score = SignalRapidCompletion, c.rules.RapidScore
	default:
		return Finding{}, false
	}
	return Finding{Signal: sig, Score: score, Label: c.rules.label(sig)}, true
}

type caFlagCheck struct {
	rules Rules
}

func (c *caFlagCheck) Name() string { return "ca_flagged" }

func (c *caFlagCheck) Evaluate(rec *developers.DeveloperRecord) (Finding, bool) {
	if !rec.HasFlaggedCAStatus() {
		return Finding{}, false
	}
	return Finding{Signal: SignalCAFlagged, Score: c.rules.CAFlagScore, Label: c.rules.label(SignalCAFlagged)}, true
}
