package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorkflow(t *testing.T) *Workflow {
	t.Helper()

	w := NewWorkflow("sample")
	w.Metadata.Description = "round trip fixture"
	w.Variables["greeting"] = "hello"
	w.Settings.RetryCount = 2
	w.Settings.NodeTimeoutSeconds = 15

	start := buildNode(t, "start", NodeTypeStart)
	start.AddOutputPort(Port{Name: "exec_out"})
	task := buildNode(t, "task", "log_message")
	task.AddInputPort(Port{Name: "exec_in"})
	task.AddInputPort(Port{Name: "message", DataType: "string"})
	task.Config["level"] = "info"

	require.NoError(t, w.AddNode(start))
	require.NoError(t, w.AddNode(task))
	require.NoError(t, w.AddConnection(Connection{
		SourceNodeID: "start", SourcePort: "exec_out",
		TargetNodeID: "task", TargetPort: "exec_in",
	}))
	return w
}

func TestSnapshotRoundTrip(t *testing.T) {
	w := sampleWorkflow(t)

	data, err := w.MarshalSnapshot()
	require.NoError(t, err)

	restored, err := UnmarshalWorkflow(data)
	require.NoError(t, err)

	assert.Equal(t, w.Metadata.Name, restored.Metadata.Name)
	assert.Equal(t, w.Metadata.Description, restored.Metadata.Description)
	assert.Equal(t, w.Settings, restored.Settings)
	assert.Equal(t, w.Variables, restored.Variables)
	assert.Equal(t, w.Connections, restored.Connections)
	require.Equal(t, w.NodeCount(), restored.NodeCount())

	task, ok := restored.GetNode("task")
	require.True(t, ok)
	assert.Equal(t, "log_message", task.Type)
	assert.Equal(t, "info", task.Config["level"])
	assert.Contains(t, task.InputPorts, "message")
}

func TestSnapshotExcludesRuntimeState(t *testing.T) {
	w := sampleWorkflow(t)
	task, _ := w.GetNode("task")
	task.Status = NodeStatusError
	task.ErrorMessage = "boom"
	task.SetOutputValue("value", 42)

	data, err := w.MarshalSnapshot()
	require.NoError(t, err)

	restored, err := UnmarshalWorkflow(data)
	require.NoError(t, err)

	restoredTask, _ := restored.GetNode("task")
	assert.Equal(t, NodeStatusIdle, restoredTask.Status)
	assert.Empty(t, restoredTask.ErrorMessage)
	assert.Nil(t, restoredTask.OutputValues)
}

func TestFromSnapshotCorrectsNodeIDToMapKey(t *testing.T) {
	w := sampleWorkflow(t)
	snapshot := w.ToSnapshot()

	drifted := *snapshot.Nodes["task"]
	drifted.ID = "stale_id"
	snapshot.Nodes["task"] = &drifted

	restored, err := FromSnapshot(snapshot)
	require.NoError(t, err)

	task, ok := restored.GetNode("task")
	require.True(t, ok)
	assert.Equal(t, "task", task.ID)
}

func TestFromSnapshotRevalidatesConnections(t *testing.T) {
	w := sampleWorkflow(t)
	snapshot := w.ToSnapshot()
	snapshot.Connections = append(snapshot.Connections, Connection{
		SourceNodeID: "task", SourcePort: "exec_out",
		TargetNodeID: "ghost", TargetPort: "exec_in",
	})

	_, err := FromSnapshot(snapshot)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestFromSnapshotNilInput(t *testing.T) {
	_, err := FromSnapshot(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUnmarshalWorkflowRejectsMalformedData(t *testing.T) {
	_, err := UnmarshalWorkflow([]byte("{not json"))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}
