package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrReplacementReplacesAllOccurrences(t *testing.T) {
	r := StrReplacement{Old: "$envdir", New: "/tmp/lint"}

	result, err := r.Resolve("$envdir/bin:$envdir/sbin")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lint/bin:/tmp/lint/sbin", result)
}

func TestStrReplacementWithoutMatchReturnsInput(t *testing.T) {
	r := StrReplacement{Old: "$envdir", New: "/tmp/lint"}

	result, err := r.Resolve("no placeholder here")
	require.NoError(t, err)
	assert.Equal(t, "no placeholder here", result)
}
