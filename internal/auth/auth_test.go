package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTokenSet(t *testing.T) {
	t.Run("DropsShortTokens", func(t *testing.T) {
		set := NewTokenSet([]string{"", "x", "ok", "longer-token"})
		assert.Equal(t, 2, set.Size())
	})
}

func TestIsAuthenticated(t *testing.T) {
	set := NewTokenSet([]string{"abc", "secret-token"})

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{name: "BearerScheme", header: "Bearer abc", want: true},
		{name: "BareToken", header: "abc", want: true},
		{name: "ExtraWhitespace", header: "  Bearer   secret-token  ", want: true},
		{name: "UnknownToken", header: "Bearer nope", want: false},
		{name: "SchemeOnly", header: "Bearer", want: false},
		{name: "MissingHeader", header: "", want: false},
		{name: "TokenIsCaseSensitive", header: "Bearer ABC", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, set.IsAuthenticated(tc.header))
		})
	}

	t.Run("EmptyAllowSetNeverAuthenticates", func(t *testing.T) {
		empty := NewTokenSet(nil)
		assert.False(t, empty.IsAuthenticated("Bearer abc"))
	})

	t.Run("ShortTokensWereNeverLoaded", func(t *testing.T) {
		set := NewTokenSet([]string{"x"})
		assert.False(t, set.IsAuthenticated("Bearer x"))
	})
}
