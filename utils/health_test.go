package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckHealthWithoutDependencies(t *testing.T) {
	status := CheckHealth(context.Background(), nil, nil)

	assert.Nil(t, status.Mongo)
	assert.Nil(t, status.Redis)
	assert.False(t, status.CheckedAt.IsZero())
	assert.Equal(t, status, GetHealthStatus())
}
