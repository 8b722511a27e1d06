package store

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory(testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func storedWorkflow(t *testing.T, name string) *domain.Workflow {
	t.Helper()
	w := domain.NewWorkflow(name)
	w.Variables["greeting"] = "hello"

	start, err := domain.NewNode("start", domain.NodeTypeStart)
	require.NoError(t, err)
	task, err := domain.NewNode("task", "log_message")
	require.NoError(t, err)
	require.NoError(t, w.AddNode(start))
	require.NoError(t, w.AddNode(task))
	require.NoError(t, w.AddConnection(domain.Connection{
		SourceNodeID: "start", SourcePort: "exec_out",
		TargetNodeID: "task", TargetPort: "exec_in",
	}))
	return w
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w := storedWorkflow(t, "greeter")
	require.NoError(t, s.Save(ctx, w))

	loaded, err := s.Load(ctx, "greeter")
	require.NoError(t, err)

	assert.Equal(t, w.Metadata.Name, loaded.Metadata.Name)
	assert.Equal(t, w.Variables, loaded.Variables)
	assert.Equal(t, w.Connections, loaded.Connections)
	assert.Equal(t, w.NodeCount(), loaded.NodeCount())
}

func TestLoadMissingWorkflow(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)
}

func TestSaveRejectsInvalidInput(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Save(ctx, nil), domain.ErrInvalidInput)

	unnamed := domain.NewWorkflow("")
	err := s.Save(ctx, unnamed)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestDeleteWorkflow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, storedWorkflow(t, "victim")))
	require.NoError(t, s.Delete(ctx, "victim"))

	_, err := s.Load(ctx, "victim")
	assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)
}

func TestListWorkflows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, storedWorkflow(t, "alpha")))
	require.NoError(t, s.Save(ctx, storedWorkflow(t, "beta")))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, names)
}

func TestSaveOverwritesExisting(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w := storedWorkflow(t, "evolving")
	require.NoError(t, s.Save(ctx, w))

	w.Variables["greeting"] = "hi again"
	require.NoError(t, s.Save(ctx, w))

	loaded, err := s.Load(ctx, "evolving")
	require.NoError(t, err)
	assert.Equal(t, "hi again", loaded.Variables["greeting"])
}

func TestOperationsAfterClose(t *testing.T) {
	s, err := OpenInMemory(testLogger())
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close()) // idempotent

	ctx := context.Background()
	assert.ErrorIs(t, s.Save(ctx, storedWorkflow(t, "late")), domain.ErrStoreClosed)
	_, err = s.Load(ctx, "late")
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
	_, err = s.List(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
}
