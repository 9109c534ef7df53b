package server

import (
	"testing"

	"github.com/iov-one/htlc/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStartFlags(t *testing.T) {
	f, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, startFlags{bind: "tcp://localhost:26658"}, f)

	f, err = parseFlags([]string{"-bind", "unix:///tmp/app.sock", "-debug", "-metrics", ":9090"})
	require.NoError(t, err)
	assert.Equal(t, startFlags{bind: "unix:///tmp/app.sock", debug: true, metrics: ":9090"}, f)

	_, err = parseFlags([]string{"-unknown"})
	assert.True(t, errors.ErrInput.Is(err))
}
