package schema_test

import (
	"testing"

	"github.com/mushafdb/mushafdb/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func TestAllModels(t *testing.T) {
	models := schema.AllModels()
	assert.Len(t, models, 8)

	// every entry must be a distinct pointer type
	seen := map[any]bool{}
	for _, m := range models {
		assert.NotNil(t, m)
		assert.False(t, seen[m])
		seen[m] = true
	}
}
