package service

import (
	"testing"

	"transitflow/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestTransportTransitions(t *testing.T) {
	allowed := []struct{ from, to string }{
		{model.TransportStatusPlanned, model.TransportStatusInProgress},
		{model.TransportStatusPlanned, model.TransportStatusCancelled},
		{model.TransportStatusInProgress, model.TransportStatusDone},
		{model.TransportStatusInProgress, model.TransportStatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, transportTransitionAllowed(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	forbidden := []struct{ from, to string }{
		{model.TransportStatusPlanned, model.TransportStatusDone},
		{model.TransportStatusDone, model.TransportStatusInProgress},
		{model.TransportStatusDone, model.TransportStatusPlanned},
		{model.TransportStatusCancelled, model.TransportStatusInProgress},
	}
	for _, tc := range forbidden {
		assert.False(t, transportTransitionAllowed(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTagRoundTrip(t *testing.T) {
	assert.Equal(t, `["Machinerie","Pièces"]`, encodeTags([]string{"Machinerie", "Pièces"}))
	assert.Equal(t, []string{"Machinerie", "Pièces"}, decodeTags(`["Machinerie","Pièces"]`))

	// Empty and malformed columns decode to an empty list, never nil.
	assert.Equal(t, []string{}, decodeTags(""))
	assert.Equal(t, []string{}, decodeTags("{broken"))
	assert.Equal(t, "[]", encodeTags(nil))
}

func TestParseOptionalDate(t *testing.T) {
	parsed, err := parseOptionalDate(strPtr("2025-03-01T12:00:00Z"))
	assert.NoError(t, err)
	assert.Equal(t, 2025, parsed.Year())

	parsed, err = parseOptionalDate(nil)
	assert.NoError(t, err)
	assert.Nil(t, parsed)

	parsed, err = parseOptionalDate(strPtr(""))
	assert.NoError(t, err)
	assert.Nil(t, parsed)

	_, err = parseOptionalDate(strPtr("01/03/2025"))
	assert.Error(t, err)
}

func strPtr(s string) *string { return &s }
