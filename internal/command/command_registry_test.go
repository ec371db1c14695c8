package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name string
	runs int
}

func (c *stubCommand) Name() string              { return c.name }
func (c *stubCommand) Description() string       { return "stub" }
func (c *stubCommand) Group() string             { return "radio" }
func (c *stubCommand) Category() string          { return "📻 Radio" }
func (c *stubCommand) Run(ctx interface{}) error { c.runs++; return nil }

func TestRegistryRoundTrip(t *testing.T) {
	first := &stubCommand{name: "stub-one"}
	second := &stubCommand{name: "stub-two"}
	Register(first)
	Register(second)

	got, ok := Get("stub-one")
	require.True(t, ok)
	assert.Same(t, Command(first), got)

	_, ok = Get("no-such-command")
	assert.False(t, ok)

	names := map[string]bool{}
	for _, cmd := range All() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["stub-one"])
	assert.True(t, names["stub-two"])
}

func TestRegisterReplacesSameName(t *testing.T) {
	older := &stubCommand{name: "stub-dup"}
	newer := &stubCommand{name: "stub-dup"}
	Register(older)
	Register(newer)

	got, ok := Get("stub-dup")
	require.True(t, ok)
	assert.Same(t, Command(newer), got)

	seen := 0
	for _, cmd := range All() {
		if cmd.Name() == "stub-dup" {
			seen++
		}
	}
	assert.Equal(t, 1, seen, "one entry per name")
}
