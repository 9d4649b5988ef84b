package csvimport

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/richxcame/devcert-dashboard/internal/developers"
)

// mapRow converts one CSV row into a record without an identifier.
// now is used as createdAt when the cell is empty.
func mapRow(row []string, cols columnIndex, now time.Time) (developers.DeveloperRecord, error) {
	rec := developers.DeveloperRecord{
		Email:               cols.text(row, ColEmail),
		FirstName:           cols.text(row, ColFirstName),
		LastName:            cols.text(row, ColLastName),
		PhoneNumber:         cols.text(row, ColPhoneNumber),
		Country:             cols.text(row, ColCountry),
		WalletAddress:       cols.text(row, ColWalletAddress),
		PartnerCode:         resolvePartnerCode(row, cols),
		AcceptedMembership:  parseBool(cols.text(row, ColAcceptedMembership)),
		AcceptedMarketing:   parseBool(cols.text(row, ColAcceptedMarketing)),
		PercentageCompleted: parseNumber(cols.text(row, ColPercentageCompleted)),
		FinalScore:          parseNumber(cols.text(row, ColFinalScore)),
		FinalGrade:          developers.GradePending,
		CAStatus:            cols.text(row, ColCAStatus),
		CreatedAt:           now,
	}

	if grade := cols.text(row, ColFinalGrade); grade != "" {
		rec.FinalGrade = developers.ParseGrade(grade)
	}

	if v := cols.text(row, ColCreatedAt); v != "" {
		createdAt, err := developers.ParseTimestamp(v)
		if err != nil {
			return developers.DeveloperRecord{}, fmt.Errorf("created at: %w", err)
		}
		rec.CreatedAt = createdAt
	}

	if v := cols.text(row, ColCompletedAt); v != "" {
		completedAt, err := developers.ParseTimestamp(v)
		if err != nil {
			return developers.DeveloperRecord{}, fmt.Errorf("completed at: %w", err)
		}
		rec.CompletedAt = &completedAt
	}

	return rec, nil
}

// resolvePartnerCode prefers "Partner Code", then "Code", then UNKNOWN
func resolvePartnerCode(row []string, cols columnIndex) string {
	if v := cols.text(row, ColPartnerCode); v != "" {
		return v
	}
	if v := cols.text(row, ColCode); v != "" {
		return v
	}
	return developers.UnknownPartnerCode
}

func parseBool(v string) bool {
	return strings.EqualFold(v, "true") || v == "1"
}

// parseNumber rounds numeric cells to the nearest integer; anything else is 0
func parseNumber(v string) int {
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}
