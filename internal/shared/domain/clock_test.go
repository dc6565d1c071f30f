package domain_test

import (
	"testing"
	"time"

	"github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday(t *testing.T) {
	at := time.Date(2025, 6, 14, 23, 59, 1, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), domain.Today(at))
	assert.Equal(t, at, domain.FixedClock{At: at}.Now())
}

func TestFormatDate(t *testing.T) {
	assert.Nil(t, domain.FormatDate(nil))
	assert.Nil(t, domain.FormatDateTime(nil))

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "2025-01-02", *domain.FormatDate(&at))
	assert.Equal(t, "2025-01-02 03:04:05", *domain.FormatDateTime(&at))
}

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())

	_, err = domain.ParseDate("28/02/2025")
	assert.True(t, domain.IsValidation(err))
}

func TestParseDateTime(t *testing.T) {
	want := time.Date(2025, 2, 28, 14, 30, 15, 0, time.UTC)
	for _, in := range []string{"2025-02-28T14:30:15Z", "2025-02-28T16:30:15+02:00", "2025-02-28 14:30:15"} {
		t.Run(in, func(t *testing.T) {
			got, err := domain.ParseDateTime(in)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	t.Run("bare date is midnight", func(t *testing.T) {
		got, err := domain.ParseDateTime("2025-02-28")
		require.NoError(t, err)
		assert.True(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC).Equal(got))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := domain.ParseDateTime("28/02/2025 14:30")
		assert.True(t, domain.IsValidation(err))
	})
}
