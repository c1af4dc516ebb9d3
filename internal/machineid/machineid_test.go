package machineid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDIsStable(t *testing.T) {
	first := ID()
	second := ID()
	assert.Equal(t, first, second)
	assert.Len(t, first, 16)
	assert.Regexp(t, "^[0-9a-f]{16}$", first)
}

func TestDerive(t *testing.T) {
	a := derive("host-a", "alice")
	b := derive("host-b", "alice")
	c := derive("host-a", "bob")

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, derive("host-a", "alice"))
}
