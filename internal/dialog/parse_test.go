package dialog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	dot, err := ParseAmount("123.45")
	require.NoError(t, err)
	comma, err := ParseAmount("123,45")
	require.NoError(t, err)
	assert.True(t, dot.Equal(comma), "both separators must parse to the same value")
	assert.Equal(t, "123.45", dot.StringFixed(2))

	whole, err := ParseAmount("R$ 300")
	require.NoError(t, err)
	assert.Equal(t, "300.00", whole.StringFixed(2))

	for _, bad := range []string{"abc", "-5", "0", "1.2.3", "", "12,345"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"10/03/2025", "10.03.2025", "10-03-2025", "10/03/25"} {
		got, err := ParseDate(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	for _, bad := range []string{"31/02/2025", "2025/03/10", "10 de março", "", "32/01/2025", "10/13/2025"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParsePeriod(t *testing.T) {
	m, y, err := ParsePeriod("03/2025")
	require.NoError(t, err)
	assert.Equal(t, 3, m)
	assert.Equal(t, 2025, y)

	m, y, err = ParsePeriod("12/25")
	require.NoError(t, err)
	assert.Equal(t, 12, m)
	assert.Equal(t, 2025, y)

	for _, bad := range []string{"13/2025", "0/2025", "março", "", "2025"} {
		_, _, err := ParsePeriod(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseInstallments(t *testing.T) {
	n, err := ParseInstallments("12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	for _, bad := range []string{"0", "101", "-3", "duas", "1.5", ""} {
		_, err := ParseInstallments(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
