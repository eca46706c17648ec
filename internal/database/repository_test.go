package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text untouched", in: "Night Express", want: "Night Express"},
		{name: "percent escaped", in: "100%", want: `100\%`},
		{name: "underscore escaped", in: "IC_5", want: `IC\_5`},
		{name: "backslash escaped first", in: `a\b`, want: `a\\b`},
		{name: "mixed", in: `50%_\`, want: `50\%\_\\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLike(tt.in))
		})
	}
}

func TestBuildWhere(t *testing.T) {
	t.Run("no conditions", func(t *testing.T) {
		where, args := buildWhere(
			condition{false, "name = $%d", "x"},
		)
		assert.Empty(t, where)
		assert.Nil(t, args)
	})

	t.Run("skips inactive conditions and renumbers", func(t *testing.T) {
		where, args := buildWhere(
			condition{false, "a = $%d", 1},
			condition{true, "b = $%d", 2},
			condition{true, "c = $%d", 3},
		)
		assert.Equal(t, "WHERE b = $1 AND c = $2", where)
		assert.Equal(t, []any{2, 3}, args)
	})
}
