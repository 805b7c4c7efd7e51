package patch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNullable(t *testing.T) {
	current := "old"

	require.Equal(t, &current, Nullable[string]{}.Apply(&current))
	require.Nil(t, Null[string]().Apply(&current))
	require.Equal(t, "new", *Value("new").Apply(&current))

	require.Nil(t, Null[int64]().Arg())
	require.Equal(t, int64(4), Value[int64](4).Arg())
}

func TestField(t *testing.T) {
	require.Equal(t, "a", Field[string]{}.Apply("a"))
	require.Equal(t, "b", Of("b").Apply("a"))
}
