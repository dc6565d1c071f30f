package database

import (
	"database/sql/driver"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchAny(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	t.Run("empty", func(t *testing.T) {
		pred, args := MatchAny(DriverSQLite, "id", nil)
		assert.Equal(t, "1 = 0", pred)
		assert.Empty(t, args)
	})

	t.Run("sqlite", func(t *testing.T) {
		pred, args := MatchAny(DriverSQLite, "user_id", []uuid.UUID{a, b})
		assert.Equal(t, "user_id IN (?, ?)", pred)
		assert.Equal(t, []any{a, b}, args)
	})

	t.Run("postgres", func(t *testing.T) {
		pred, args := MatchAny(DriverPostgres, "id", []uuid.UUID{a, b})
		assert.Equal(t, "id = ANY(?::uuid[])", pred)
		assert.Equal(t, "id = ANY($1::uuid[])", Rebind(pred))
		require.Len(t, args, 1)
		v, err := args[0].(driver.Valuer).Value()
		require.NoError(t, err)
		assert.Equal(t, "{\""+a.String()+"\",\""+b.String()+"\"}", v)
	})
}
