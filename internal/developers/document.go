package developers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseTimestamp reads the timestamp formats found in CSV exports and in
// documents written by the web client (ISO strings).
func ParseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", v)
}

// recordFromData builds a record from raw document fields. Documents written
// by the web client store timestamps as ISO strings, the phone under "phone",
// and numbers as doubles, so every field is converted leniently.
func recordFromData(id string, data map[string]interface{}) (*DeveloperRecord, error) {
	rec := &DeveloperRecord{
		ID:                  id,
		Email:               docString(data["email"]),
		FirstName:           docString(data["firstName"]),
		LastName:            docString(data["lastName"]),
		PhoneNumber:         docString(data["phone"]),
		Country:             docString(data["country"]),
		WalletAddress:       docString(data["walletAddress"]),
		PartnerCode:         docString(data["partnerCode"]),
		AcceptedMembership:  docBool(data["acceptedMembership"]),
		AcceptedMarketing:   docBool(data["acceptedMarketing"]),
		PercentageCompleted: docInt(data["percentageCompleted"]),
		FinalScore:          docInt(data["finalScore"]),
		FinalGrade:          ParseGrade(docString(data["finalGrade"])),
		CAStatus:            docString(data["caStatus"]),
		IsSuspicious:        docBool(data["isSuspicious"]),
		SuspicionReason:     docString(data["suspicionReason"]),
		RiskScore:           docInt(data["riskScore"]),
	}
	if rec.PhoneNumber == "" {
		rec.PhoneNumber = docString(data["phoneNumber"])
	}

	created, err := docTime(data["createdAt"])
	if err != nil {
		return nil, fmt.Errorf("createdAt: %w", err)
	}
	if created != nil {
		rec.CreatedAt = *created
	}
	if rec.CompletedAt, err = docTime(data["completedAt"]); err != nil {
		return nil, fmt.Errorf("completedAt: %w", err)
	}

	if signals, ok := data["fraudSignals"].([]interface{}); ok {
		for _, s := range signals {
			if str := docString(s); str != "" {
				rec.FraudSignals = append(rec.FraudSignals, str)
			}
		}
	}
	return rec, nil
}

func docString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func docBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true") || t == "1"
	case int64:
		return t == 1
	case float64:
		return t == 1
	}
	return false
}

func docInt(v interface{}) int {
	var f float64
	switch t := v.(type) {
	case int64:
		return int(t)
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}

// docTime accepts Firestore timestamps and ISO strings. Missing, null and
// empty values yield nil.
func docTime(v interface{}) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		utc := t.UTC()
		return &utc, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		parsed, err := ParseTimestamp(t)
		if err != nil {
			return nil, err
		}
		return &parsed, nil
	default:
		return nil, fmt.Errorf("unsupported timestamp type %T", v)
	}
}
