package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("arguments", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		require.NoError(t, run(&out, strings.NewReader(""), bcrypt.MinCost, []string{"testpassword123", "тест123"}))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(lines[0]), []byte("testpassword123")))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(lines[1]), []byte("тест123")))
	})

	t.Run("stdin", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		require.NoError(t, run(&out, strings.NewReader("alpha\n\nbeta\n"), bcrypt.MinCost, nil))
		assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 2)
	})

	t.Run("too long", func(t *testing.T) {
		t.Parallel()
		err := run(&bytes.Buffer{}, strings.NewReader(""), bcrypt.MinCost, []string{strings.Repeat("x", 80)})
		assert.Error(t, err)
	})
}
