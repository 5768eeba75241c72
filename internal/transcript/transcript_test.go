package transcript

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLog_AppendOnly(t *testing.T) {
	log := NewMemoryLog()
	ctx := context.Background()

	err := log.Append(ctx, "user-1", Entry{Role: "assistant", Content: "first", Source: "quiz"})
	assert.NoError(t, err)
	err = log.Append(ctx, "user-1", Entry{Role: "assistant", Content: "second", Source: "dictation"})
	assert.NoError(t, err)
	err = log.Append(ctx, "user-2", Entry{Role: "assistant", Content: "other"})
	assert.NoError(t, err)

	entries, err := log.List(ctx, "user-1")
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Content)
	assert.Equal(t, "second", entries[1].Content)
	assert.False(t, entries[0].CreatedAt.IsZero())

	// owners are isolated
	other, err := log.List(ctx, "user-2")
	assert.NoError(t, err)
	assert.Len(t, other, 1)

	// returned slice is a copy; mutating it does not touch the log
	entries[0].Content = "tampered"
	fresh, _ := log.List(ctx, "user-1")
	assert.Equal(t, "first", fresh[0].Content)
}

func TestMemoryLog_EmptyOwner(t *testing.T) {
	log := NewMemoryLog()

	entries, err := log.List(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Empty(t, entries)
}
