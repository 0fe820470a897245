package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cobranca/internal/domain"
)

func TestLocation(t *testing.T) {
	assert.Equal(t, domain.ReportTimezone, domain.Location().String())
}

func TestStartAndEndOfDay(t *testing.T) {
	day := time.Date(2024, 1, 15, 13, 45, 0, 0, domain.Location())

	start := domain.StartOfDay(day)
	end := domain.EndOfDay(day)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, domain.Location()), start)
	assert.Equal(t, time.Date(2024, 1, 15, 23, 59, 59, 999999000, domain.Location()), end)
}

func TestStartOfDay_ConvertsToReportTimezone(t *testing.T) {
	// 01:00 UTC on the 16th is still the 15th in São Paulo (UTC-3).
	utc := time.Date(2024, 1, 16, 1, 0, 0, 0, time.UTC)

	start := domain.StartOfDay(utc)

	assert.Equal(t, 15, start.Day())
	assert.Equal(t, domain.Location(), start.Location())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := domain.ParseDate("15/01/2024")
	assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
}

func TestNewPeriod_Contains(t *testing.T) {
	p, err := domain.NewPeriod("2024-01-01", "2024-01-31")
	require.NoError(t, err)

	loc := domain.Location()
	assert.True(t, p.Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, loc)))
	assert.True(t, p.Contains(time.Date(2024, 1, 31, 23, 59, 59, 0, loc)))
	assert.False(t, p.Contains(time.Date(2023, 12, 31, 23, 59, 59, 0, loc)))
	assert.False(t, p.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, loc)))
}

func TestNewPeriod_ReversedRangeMatchesNothing(t *testing.T) {
	p, err := domain.NewPeriod("2024-02-01", "2024-01-01")
	require.NoError(t, err)

	assert.True(t, p.Start.After(p.End))
	assert.False(t, p.Contains(time.Date(2024, 1, 15, 12, 0, 0, 0, domain.Location())))
}

func TestNewPeriod_InvalidEnd(t *testing.T) {
	_, err := domain.NewPeriod("2024-01-01", "soon")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
