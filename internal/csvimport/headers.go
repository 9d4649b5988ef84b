package csvimport

import "strings"

// Canonical column names
const (
	ColEmail               = "Email"
	ColFirstName           = "First Name"
	ColLastName            = "Last Name"
	ColPhoneNumber         = "Phone Number"
	ColCountry             = "Country"
	ColAcceptedMembership  = "Accepted Membership"
	ColAcceptedMarketing   = "Accepted Marketing"
	ColWalletAddress       = "Wallet Address"
	ColPercentageCompleted = "Percentage Completed"
	ColCreatedAt           = "Created At"
	ColCompletedAt         = "Completed At"
	ColFinalScore          = "Final Score"
	ColFinalGrade          = "Final Grade"
	ColCAStatus            = "CA Status"
	ColPartnerCode         = "Partner Code"
	ColPartner             = "Partner"
	ColCode                = "Code"
)

// requiredColumns is reported in this order when columns are missing
var requiredColumns = []string{
	ColEmail, ColFirstName, ColLastName, ColPhoneNumber, ColCountry,
	ColAcceptedMembership, ColAcceptedMarketing, ColWalletAddress,
	ColPercentageCompleted, ColCreatedAt,
	ColCompletedAt, ColFinalScore, ColFinalGrade, ColCAStatus,
}

// partnerRequirement is the label used when no partner column resolves
const partnerRequirement = "Partner Code (or 'Partner' and 'Code' columns)"

// NormalizeHeader lower-cases and trims h and collapses whitespace runs to one space
func NormalizeHeader(h string) string {
	// Fields splits on Unicode whitespace, NBSP included
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// FindHeader returns the first header whose normalized form matches target
func FindHeader(headers []string, target string) (string, bool) {
	if i := findHeaderIndex(headers, target); i >= 0 {
		return headers[i], true
	}
	return "", false
}

// HasHeader reports whether any header matches target
func HasHeader(headers []string, target string) bool {
	return findHeaderIndex(headers, target) >= 0
}

// HasPartnerColumns reports whether partner information is resolvable:
// a "Partner Code" column, or both "Partner" and "Code" columns.
func HasPartnerColumns(headers []string) bool {
	if HasHeader(headers, ColPartnerCode) {
		return true
	}
	return HasHeader(headers, ColCode) && HasHeader(headers, ColPartner)
}

func findHeaderIndex(headers []string, target string) int {
	normalizedTarget := NormalizeHeader(target)
	for i, h := range headers {
		if NormalizeHeader(h) == normalizedTarget {
			return i
		}
	}
	return -1
}

// columnIndex maps a normalized canonical column name to its position in a row
type columnIndex map[string]int

// buildColumnIndex resolves every header once. The first occurrence of a
// duplicated header wins.
func buildColumnIndex(headers []string) columnIndex {
	idx := make(columnIndex, len(headers))
	for i, h := range headers {
		key := NormalizeHeader(h)
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return idx
}

func (ci columnIndex) has(column string) bool {
	_, ok := ci[NormalizeHeader(column)]
	return ok
}

// value returns the trimmed cell for column. ok is false when the column is
// absent or the row is too short to contain it.
func (ci columnIndex) value(row []string, column string) (string, bool) {
	i, found := ci[NormalizeHeader(column)]
	if !found || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

// text returns the trimmed cell or "" when absent
func (ci columnIndex) text(row []string, column string) string {
	v, _ := ci.value(row, column)
	return v
}

// missingColumns lists the unresolved required columns in report order
func (ci columnIndex) missingColumns() []string {
	var missing []string
	for _, col := range requiredColumns {
		if !ci.has(col) {
			missing = append(missing, col)
		}
	}
	if !ci.has(ColPartnerCode) && !(ci.has(ColPartner) && ci.has(ColCode)) {
		missing = append(missing, partnerRequirement)
	}
	return missing
}
