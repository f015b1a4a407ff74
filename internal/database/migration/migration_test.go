package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewLogger(zap.New(core), true)

	l.Printf("applied %d", 1)

	assert.True(t, l.Verbose())
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "DB Migration: applied 1", logs.All()[0].Message)
}

func TestRollback_RejectsNonPositiveSteps(t *testing.T) {
	err := Rollback("postgres://localhost/none", "file:///tmp", 0, zap.NewNop())
	assert.ErrorContains(t, err, "must be positive")
}
