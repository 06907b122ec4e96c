package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJournalAmountsDebitOnly(t *testing.T) {
	debit, credit, err := parseJournalAmounts("1500.50", "")
	require.NoError(t, err)
	assert.Equal(t, "1500.5", debit.String())
	assert.True(t, credit.IsZero())
}

func TestParseJournalAmountsCreditOnly(t *testing.T) {
	debit, credit, err := parseJournalAmounts("", "320")
	require.NoError(t, err)
	assert.True(t, debit.IsZero())
	assert.Equal(t, "320", credit.String())
}

func TestParseJournalAmountsRejectsBothSides(t *testing.T) {
	_, _, err := parseJournalAmounts("100", "100")
	assert.ErrorContains(t, err, "cannot carry both")
}

func TestParseJournalAmountsRejectsNeitherSide(t *testing.T) {
	_, _, err := parseJournalAmounts("", "")
	assert.ErrorContains(t, err, "must carry")

	_, _, err = parseJournalAmounts("0", "0")
	assert.ErrorContains(t, err, "must carry")
}

func TestParseJournalAmountsRejectsNegatives(t *testing.T) {
	_, _, err := parseJournalAmounts("-5", "")
	assert.ErrorContains(t, err, "negative")
}

func TestParseJournalAmountsRejectsGarbage(t *testing.T) {
	_, _, err := parseJournalAmounts("abc", "")
	assert.ErrorContains(t, err, "invalid debit amount")
}
