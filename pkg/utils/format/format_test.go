package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDuration(t *testing.T) {
	require.Equal(t, "0:00", Duration(-5))
	require.Equal(t, "0:07", Duration(7))
	require.Equal(t, "2:05", Duration(125))
	require.Equal(t, "1:01:01", Duration(3661))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	require.Equal(t, "Пес...", Truncate("Песня о любви", 6))
	require.Equal(t, "ab", Truncate("abcdef", 2))
	require.Equal(t, "", Truncate("abc", 0))
}

func TestPad(t *testing.T) {
	require.Equal(t, "ab  ", PadRight("ab", 4))
	require.Equal(t, "  ab", PadLeft("ab", 4))
	require.Equal(t, "abcdef", PadRight("abcdef", 4))
	require.Equal(t, "ё   ", PadRight("ё", 4))
}
