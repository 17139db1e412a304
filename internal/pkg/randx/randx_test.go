package randx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := ID()
		assert.NotEmpty(t, id)
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestValidIdentity(t *testing.T) {
	valid := []string{"alice", "user-42", "a.b_c", "someone@example.com", "X"}
	for _, id := range valid {
		assert.True(t, ValidIdentity(id), id)
	}

	invalid := []string{
		"",
		"has space",
		"semi;colon",
		"slash/",
		strings.Repeat("a", MaxIdentityLength+1),
	}
	for _, id := range invalid {
		assert.False(t, ValidIdentity(id), id)
	}

	assert.True(t, ValidIdentity(strings.Repeat("a", MaxIdentityLength)))
}
