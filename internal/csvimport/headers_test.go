package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Email", "email"},
		{"  First   Name ", "first name"},
		{"CA\tStatus", "ca status"},
		{"PARTNER CODE", "partner code"},
		{"Partner\u00a0Code", "partner code"},
		{"\u2003Final\u00a0 Grade\u2002", "final grade"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeHeader(tt.in), tt.in)
	}
}

func TestFindHeader(t *testing.T) {
	headers := []string{"email", " First  Name", "first name"}

	got, ok := FindHeader(headers, "First Name")
	assert.True(t, ok)
	assert.Equal(t, " First  Name", got)

	_, ok = FindHeader(headers, "Country")
	assert.False(t, ok)
	assert.True(t, HasHeader(headers, "EMAIL"))
}

func TestHasPartnerColumns(t *testing.T) {
	assert.True(t, HasPartnerColumns([]string{"partner code"}))
	assert.True(t, HasPartnerColumns([]string{"Partner", "Code"}))
	assert.False(t, HasPartnerColumns([]string{"Code"}))
	assert.False(t, HasPartnerColumns([]string{"Partner"}))
	assert.False(t, HasPartnerColumns(nil))
}

func TestColumnIndex_FirstOccurrenceWins(t *testing.T) {
	cols := buildColumnIndex([]string{"Email", "email"})

	assert.Equal(t, "first@x.com", cols.text([]string{" first@x.com ", "second@x.com"}, ColEmail))
	// short rows read as empty
	v, ok := cols.value([]string{}, ColEmail)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestColumnIndex_MissingColumns(t *testing.T) {
	cols := buildColumnIndex([]string{"Email", "Country", "Code"})

	missing := cols.missingColumns()

	assert.Equal(t, "First Name", missing[0])
	assert.NotContains(t, missing, "Email")
	assert.NotContains(t, missing, "Country")
	assert.Equal(t, partnerRequirement, missing[len(missing)-1])
	assert.Len(t, missing, 13)
}
