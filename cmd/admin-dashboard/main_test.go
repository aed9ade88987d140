package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(int) ([]byte, error) {
		next := answers[0]
		answers = answers[1:]
		return []byte(next), nil
	}
}

func TestPromptPassword(t *testing.T) {
	stubPasswords(t, "Admin123!", "Admin123!")
	var out bytes.Buffer

	p, err := promptPassword(&out, 0)
	require.NoError(t, err)
	require.Equal(t, "Admin123!", p)
	require.Contains(t, out.String(), "Confirm password")
}

func TestPromptPasswordMismatch(t *testing.T) {
	stubPasswords(t, "Admin123!", "Admin123?")

	_, err := promptPassword(&bytes.Buffer{}, 0)
	require.ErrorContains(t, err, "do not match")
}

func TestPromptPasswordEmpty(t *testing.T) {
	stubPasswords(t, "  ", "")

	_, err := promptPassword(&bytes.Buffer{}, 0)
	require.ErrorContains(t, err, "required")
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	require.Equal(t, version, strings.TrimSpace(out.String()))
}
