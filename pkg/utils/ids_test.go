package utils

import (
	"strings"
	"testing"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeID_Representations(t *testing.T) {
	id := uuid.New()
	want := id.String()
	raw, err := id.MarshalBinary()
	require.NoError(t, err)

	for _, ref := range []interface{}{
		id,
		&id,
		want,
		strings.ToUpper(want),
		"  " + want + "\n",
		"{" + want + "}",
		"urn:uuid:" + want,
		raw,
		[]byte(want),
		models.ParticipantProfile{ID: strings.ToUpper(want), Username: "alice"},
		&models.ParticipantProfile{ID: want},
	} {
		got, err := NormalizeID(ref)
		require.NoError(t, err, "%#v", ref)
		assert.Equal(t, want, got)
	}
}

func TestNormalizeID_Rejects(t *testing.T) {
	var nilID *uuid.UUID
	var nilProfile *models.ParticipantProfile
	for _, ref := range []interface{}{nil, "", "   ", "abc", uuid.Nil, uuid.Nil.String(), nilID, nilProfile, 42} {
		_, err := NormalizeID(ref)
		assert.ErrorIs(t, err, ErrInvalidID, "%#v", ref)
	}
}

func TestSameID(t *testing.T) {
	id := uuid.New()
	assert.True(t, SameID(id, strings.ToUpper(id.String())))
	assert.False(t, SameID(id, uuid.New()))
	assert.False(t, SameID("", ""))
}

func TestNormalizeIDs_DedupesInOrder(t *testing.T) {
	a, b := uuid.NewString(), uuid.NewString()
	got := NormalizeIDs([]string{strings.ToUpper(b), "junk", a, b})
	assert.Equal(t, []string{b, a}, got)
}

func TestMustNormalizeID_Panics(t *testing.T) {
	assert.Panics(t, func() { MustNormalizeID("nope") })
}
