package code

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestUUIDIssuer_Issue(t *testing.T) {
	issuer := NewUUIDIssuer()

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		c := issuer.Issue()

		parsed, err := uuid.Parse(c)
		require.NoError(t, err)
		require.Equal(t, uuid.Version(4), parsed.Version())

		_, dup := seen[c]
		require.False(t, dup, "issuer produced duplicate code %s", c)
		seen[c] = struct{}{}
	}
}
