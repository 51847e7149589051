package statement_test

import (
	"testing"

	"github.com/jrsteele09/go-aletheia/facts"
	"github.com/jrsteele09/go-aletheia/statement"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  statement.Assertion
		ok    bool
	}{
		{"plain", "sky is blue.", statement.Assertion{Subject: "sky", Value: "blue"}, true},
		{"negated", "sky is not green.", statement.Assertion{Subject: "sky", Value: "green", Negated: true}, true},
		{"mixed case and padding", "  The Sky IS Blue .  ", statement.Assertion{Subject: "the sky", Value: "blue"}, true},
		{"multi word value", "the answer is forty two.", statement.Assertion{Subject: "the answer", Value: "forty two"}, true},
		{"first separator wins", "this is what it is.", statement.Assertion{Subject: "this", Value: "what it is"}, true},
		{"no period", "sky is blue", statement.Assertion{}, false},
		{"empty", "", statement.Assertion{}, false},
		{"just a period", ".", statement.Assertion{}, false},
		{"no separator", "just words.", statement.Assertion{}, false},
		{"missing value", "sky is .", statement.Assertion{}, false},
		{"missing subject", " is blue.", statement.Assertion{}, false},
		{"separator needs spaces", "sky isblue.", statement.Assertion{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := statement.Parse(tt.input)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluator_Evaluate(t *testing.T) {
	store := facts.NewStore()
	store.Set("sky", "blue")
	e := statement.NewEvaluator(store)

	t.Run("known facts", func(t *testing.T) {
		require.True(t, e.Evaluate("sky is blue."))
		require.False(t, e.Evaluate("sky is green."))
		require.True(t, e.Evaluate("sky is not green."))
		require.False(t, e.Evaluate("sky is not blue."))
	})

	t.Run("case insensitive", func(t *testing.T) {
		require.True(t, e.Evaluate("SKY IS BLUE."))
		require.False(t, e.Evaluate("Sky Is Not Blue."))
	})

	t.Run("unknown subject", func(t *testing.T) {
		require.False(t, e.Evaluate("moon is white."))
		require.True(t, e.Evaluate("moon is not white."))
	})

	t.Run("unparsable input is false", func(t *testing.T) {
		require.False(t, e.Evaluate(""))
		require.False(t, e.Evaluate("no period"))
		require.False(t, e.Evaluate("just words"))
		require.False(t, e.Evaluate("sky is not ."))
	})

	t.Run("sees later facts", func(t *testing.T) {
		store.Set("sky", "grey")
		require.True(t, e.Evaluate("sky is grey."))
		require.True(t, e.Evaluate("sky is not blue."))
	})
}
