package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	require.Equal(t, "dev", format("", "", "", false))
	require.Equal(t, "v1.2.0 0123456 at 2026-10-18 09:30:00",
		format("v1.2.0", "0123456789abcdef", "2026-10-18T09:30:00Z", false))
	require.Equal(t, "abc at raw dirty", format("", "abc", "raw", true))
}
