package retrieval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nurudeen19/rag-fortress/internal/application/retrieval"
)

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "What IS This", "what is this"},
		{"collapses whitespace", "  a \t b\n c ", "a b c"},
		{"strips diacritics", "résumé of José", "resume of jose"},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, retrieval.NormalizeQuery(tc.in))
		})
	}
}
