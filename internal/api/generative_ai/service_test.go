package generativeAI

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alik192/AI-Travel-Planner/internal/types"
)

func TestNewAIClient_MissingKeyIsConfigError(t *testing.T) {
	client, err := NewAIClient(context.Background(), "")
	assert.Nil(t, client)
	assert.ErrorIs(t, err, types.ErrConfig)
}
