package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartEchoesEveryArgument(t *testing.T) {
	var out bytes.Buffer
	ran := 0
	args := []string{"shaderdemo", "-x", "--version", "-h", "help", "plain"}

	err := start(&out, args, func() error {
		ran++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ran)
	assert.Equal(t, "shaderdemo\n-x\n--version\n-h\nhelp\nplain\n", out.String())
}

func TestStartWithoutArguments(t *testing.T) {
	var out bytes.Buffer
	ran := false
	require.NoError(t, start(&out, []string{"shaderdemo"}, func() error {
		ran = true
		return nil
	}))
	assert.True(t, ran)
	assert.Equal(t, "shaderdemo\n", out.String())
}
