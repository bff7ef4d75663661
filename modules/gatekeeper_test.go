package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCommandText(t *testing.T) {
	assert.True(t, isCommandText("/help"))
	assert.True(t, isCommandText("!help"))
	assert.False(t, isCommandText("#join hi, I write docs"))
	assert.False(t, isCommandText("hello"))
	assert.False(t, isCommandText(""))
}
