package csvimport

import (
	"testing"
	"time"

	"github.com/richxcame/devcert-dashboard/internal/developers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var importInstant = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestMapRow_AllFields(t *testing.T) {
	headers := []string{
		"Email", "First Name", "Last Name", "Phone Number", "Country",
		"Accepted Membership", "Accepted Marketing", "Wallet Address",
		"Percentage Completed", "Created At", "Completed At", "Final Score",
		"Final Grade", "CA Status", "Partner Code",
	}
	row := []string{
		"a@x.com", "Ada", "Lovelace", "+1", "UK",
		"true", "1", "0.0.100",
		"99.6", "2023-01-01T00:00:00Z", "2023-01-01 03:00:00", "87",
		"pass", "Flagged", " ACME ",
	}

	rec, err := mapRow(row, buildColumnIndex(headers), importInstant)

	require.NoError(t, err)
	assert.Equal(t, "a@x.com", rec.Email)
	assert.Equal(t, "Ada", rec.FirstName)
	assert.True(t, rec.AcceptedMembership)
	assert.True(t, rec.AcceptedMarketing)
	assert.Equal(t, 100, rec.PercentageCompleted)
	assert.Equal(t, 87, rec.FinalScore)
	assert.Equal(t, developers.GradePass, rec.FinalGrade)
	assert.Equal(t, "ACME", rec.PartnerCode)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), rec.CreatedAt)
	require.NotNil(t, rec.CompletedAt)
	assert.Equal(t, time.Date(2023, 1, 1, 3, 0, 0, 0, time.UTC), *rec.CompletedAt)
	assert.Empty(t, rec.ID)
}

func TestMapRow_Defaults(t *testing.T) {
	cols := buildColumnIndex([]string{"Email", "Accepted Membership", "Final Score", "Final Grade", "Created At", "Completed At"})

	rec, err := mapRow([]string{"a@x.com", "yes", "abc", "", "", ""}, cols, importInstant)

	require.NoError(t, err)
	assert.False(t, rec.AcceptedMembership)
	assert.Equal(t, 0, rec.FinalScore)
	assert.Equal(t, developers.GradePending, rec.FinalGrade)
	assert.Equal(t, importInstant, rec.CreatedAt)
	assert.Nil(t, rec.CompletedAt)
	assert.Equal(t, developers.UnknownPartnerCode, rec.PartnerCode)
}

func TestMapRow_PartnerCodePrecedence(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		row     []string
		want    string
	}{
		{"partner code wins", []string{"Email", "Partner Code", "Code"}, []string{"a@x.com", "P1", "C1"}, "P1"},
		{"falls back to code", []string{"Email", "Partner Code", "Code"}, []string{"a@x.com", "", "C1"}, "C1"},
		{"partner alone is ignored", []string{"Email", "Partner", "Code"}, []string{"a@x.com", "Acme Corp", ""}, "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := mapRow(tt.row, buildColumnIndex(tt.headers), importInstant)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.PartnerCode)
		})
	}
}

func TestMapRow_BadTimestamp(t *testing.T) {
	cols := buildColumnIndex([]string{"Email", "Created At"})

	_, err := mapRow([]string{"a@x.com", "not a date"}, cols, importInstant)

	assert.Error(t, err)
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 0, parseNumber(""))
	assert.Equal(t, 42, parseNumber("42"))
	assert.Equal(t, 3, parseNumber("2.5"))
	assert.Equal(t, 0, parseNumber("NaN"))
	assert.Equal(t, 0, parseNumber("Inf"))
	assert.Equal(t, 0, parseNumber("12abc"))
}
