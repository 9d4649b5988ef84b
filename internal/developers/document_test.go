package developers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFromData_WebClientDocument(t *testing.T) {
	data := map[string]interface{}{
		"email":               "ada@example.com",
		"firstName":           "Ada",
		"phone":               "+44 1234",
		"acceptedMembership":  true,
		"percentageCompleted": float64(87.6),
		"finalScore":          int64(91),
		"finalGrade":          "Pass",
		"partnerCode":         "ACME",
		"createdAt":           "2023-01-01T00:00:00.000Z",
		"completedAt":         "2023-01-01T03:30:00.000Z",
		"caStatus":            "",
	}

	rec, err := recordFromData("doc-1", data)

	require.NoError(t, err)
	assert.Equal(t, "doc-1", rec.ID)
	assert.Equal(t, "+44 1234", rec.PhoneNumber)
	assert.True(t, rec.AcceptedMembership)
	assert.Equal(t, 88, rec.PercentageCompleted)
	assert.Equal(t, 91, rec.FinalScore)
	assert.Equal(t, GradePass, rec.FinalGrade)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), rec.CreatedAt)
	require.NotNil(t, rec.CompletedAt)
	assert.Equal(t, time.Date(2023, 1, 1, 3, 30, 0, 0, time.UTC), *rec.CompletedAt)
	assert.True(t, rec.IsRapidCertification())
}

func TestRecordFromData_StoredTypes(t *testing.T) {
	created := time.Date(2024, 2, 1, 9, 0, 0, 0, time.FixedZone("CET", 3600))
	data := map[string]interface{}{
		"email":        "b@example.com",
		"phoneNumber":  "555",
		"createdAt":    created,
		"completedAt":  nil,
		"finalGrade":   "pending",
		"riskScore":    int64(55),
		"isSuspicious": true,
		"fraudSignals": []interface{}{"email_alias", "disposable_email"},
	}

	rec, err := recordFromData("doc-2", data)

	require.NoError(t, err)
	assert.Equal(t, "555", rec.PhoneNumber)
	assert.Equal(t, created.UTC(), rec.CreatedAt)
	assert.Nil(t, rec.CompletedAt)
	assert.Equal(t, GradePending, rec.FinalGrade)
	assert.Equal(t, 55, rec.RiskScore)
	assert.Equal(t, []string{"email_alias", "disposable_email"}, rec.FraudSignals)
}

func TestRecordFromData_BadTimestamp(t *testing.T) {
	_, err := recordFromData("doc-3", map[string]interface{}{"createdAt": "yesterday"})
	assert.ErrorContains(t, err, "createdAt")

	_, err = recordFromData("doc-4", map[string]interface{}{"completedAt": int64(5)})
	assert.ErrorContains(t, err, "completedAt")
}

func TestRecordFromData_EmptyStringsAreAbsent(t *testing.T) {
	rec, err := recordFromData("doc-5", map[string]interface{}{"createdAt": "", "completedAt": ""})

	require.NoError(t, err)
	assert.True(t, rec.CreatedAt.IsZero())
	assert.Nil(t, rec.CompletedAt)
}

func TestParseTimestamp_Layouts(t *testing.T) {
	for _, v := range []string{"2023-03-04", "03/04/2023", "2023-03-04T00:00:00+00:00", "2023-03-04 00:00", " 2023-03-04T00:00:00.000Z "} {
		ts, err := ParseTimestamp(v)
		require.NoError(t, err, v)
		assert.Equal(t, time.Date(2023, 3, 4, 0, 0, 0, 0, time.UTC), ts, v)
	}

	_, err := ParseTimestamp("soon")
	assert.Error(t, err)
}
