package registry

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type countingNode struct {
	id int
}

func (c *countingNode) Invoke(ctx context.Context, ec ports.ExecutionContext, node *domain.Node) (*ports.InvokeResult, error) {
	return &ports.InvokeResult{Success: true}, nil
}

func TestRegisterAndResolve(t *testing.T) {
	r := New(testLogger())

	instances := 0
	require.NoError(t, r.Register("click", func() ports.RunnableNode {
		instances++
		return &countingNode{id: instances}
	}))

	first, err := r.Resolve("click")
	require.NoError(t, err)
	second, err := r.Resolve("click")
	require.NoError(t, err)

	// a fresh instance per resolution
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, instances)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := New(testLogger())
	factory := func() ports.RunnableNode { return &countingNode{} }

	require.NoError(t, r.Register("click", factory))
	err := r.Register("click", factory)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.ErrorIs(t, err, domain.ErrDuplicateType)
}

func TestRegisterRejectsEmptyInput(t *testing.T) {
	r := New(testLogger())

	assert.ErrorIs(t, r.Register("", func() ports.RunnableNode { return &countingNode{} }), domain.ErrInvalidInput)
	assert.ErrorIs(t, r.Register("click", nil), domain.ErrInvalidInput)
}

func TestResolveUnknownType(t *testing.T) {
	r := New(testLogger())
	_, err := r.Resolve("ghost")
	assert.ErrorIs(t, err, domain.ErrTypeNotFound)
}

func TestHasAndTypes(t *testing.T) {
	r := New(testLogger())
	factory := func() ports.RunnableNode { return &countingNode{} }

	require.NoError(t, r.Register("type_b", factory))
	require.NoError(t, r.Register("type_a", factory))

	assert.True(t, r.Has("type_a"))
	assert.False(t, r.Has("type_c"))
	assert.Equal(t, []string{"type_a", "type_b"}, r.Types())
}
