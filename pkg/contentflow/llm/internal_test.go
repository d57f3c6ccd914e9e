package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem([]Message{
		System("first"),
		User("hello"),
		System("second"),
		{Role: RoleAssistant, Content: "hi"},
	})

	assert.Equal(t, "first\n\nsecond", system)
	assert.Equal(t, []Message{User("hello"), {Role: RoleAssistant, Content: "hi"}}, rest)
}

func TestSplitSystem_None(t *testing.T) {
	system, rest := splitSystem([]Message{User("only")})

	assert.Empty(t, system)
	assert.Len(t, rest, 1)
}
