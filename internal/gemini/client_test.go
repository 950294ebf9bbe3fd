package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	c, err := NewClient(context.Background(), "test-key", "gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", c.Model())
	assert.NotNil(t, c.models)
}
