package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition_AnyValidPair(t *testing.T) {
	for _, from := range ProjectStatuses {
		for _, to := range ProjectStatuses {
			assert.True(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_InvalidStatus(t *testing.T) {
	assert.False(t, CanTransition(ProjectDraft, "Archived"))
	assert.False(t, CanTransition("", ProjectApproved))
}

func TestValidateTransition_InvalidTarget(t *testing.T) {
	err := ValidateTransition(ProjectReviewing, "Closed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid target status")
}

func TestParseProjectStatus_CaseInsensitive(t *testing.T) {
	s, err := ParseProjectStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, ProjectApproved, s)

	_, err = ParseProjectStatus("archived")
	assert.Error(t, err)
}

func TestParseBondCategory(t *testing.T) {
	c, err := ParseBondCategory("migrant-worker")
	require.NoError(t, err)
	assert.Equal(t, BondMigrantWorker, c)
	assert.Equal(t, "农民工工资支付保函", c.Label())

	_, err = ParseBondCategory("surety")
	assert.Error(t, err)
}

func TestParseCreditMode(t *testing.T) {
	cases := map[string]CreditMode{
		"credit":                CreditEntity,
		"NON_CREDIT":            NonCreditEntity,
		"non-credit":            NonCreditEntity,
		"NON_CREDIT_ENTERPRISE": NonCreditEntity,
		"CREDIT_ENTERPRISE":     CreditEntity,
	}
	for in, want := range cases {
		got, err := ParseCreditMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseCreditMode("partial")
	assert.Error(t, err)
}

func TestDisplayID(t *testing.T) {
	p := &Project{ID: "550e8400-e29b-41d4-a716-446655440000"}
	assert.Equal(t, "550e8400", p.DisplayID())

	p = &Project{ID: "abc"}
	assert.Equal(t, "abc", p.DisplayID())
}

func TestChecklist_HasAcceptsCatchAll(t *testing.T) {
	cl := Checklist{{ID: "g", Items: []ChecklistItem{{ID: "license", Required: true}}}}
	assert.True(t, cl.Has("license"))
	assert.True(t, cl.Has(CatchAllItemID))
	assert.False(t, cl.Has("tender_doc"))
	assert.Len(t, cl.Required(), 1)
}

func TestFileRecord_NameFallback(t *testing.T) {
	f := FileRecord{OriginalName: "scan01.jpg"}
	assert.Equal(t, "scan01.jpg", f.Name())
	f.DisplayName = "营业执照.jpg"
	assert.Equal(t, "营业执照.jpg", f.Name())
}

func TestFileRecord_CloneDoesNotSharePayload(t *testing.T) {
	f := FileRecord{Payload: []byte("abc")}
	c := f.Clone()
	c.Payload[0] = 'x'
	assert.Equal(t, "abc", string(f.Payload))
}
