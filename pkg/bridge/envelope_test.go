package bridge

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harun/mcpbridge/pkg/tool"
)

func TestBuildSuccessLegacy(t *testing.T) {
	env := buildSuccess(EntryLegacy, tool.ToolAnalyzeFile, tool.Result{Payload: "an answer"}, "")
	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, map[string]interface{}{"answer": "an answer"}, env.Body)
}

func TestBuildSuccessGeneric(t *testing.T) {
	env := buildSuccess(EntryGeneric, tool.ToolAnalyzeFile, tool.Result{Payload: "an answer"}, "")
	assert.Equal(t, map[string]interface{}{"result": "an answer"}, env.Body)

	// The generic route returns discovery matches raw under "files".
	env = buildSuccess(EntryGeneric, tool.ToolDiscoverFiles, tool.Result{Payload: []string{"a.md"}}, "")
	assert.Equal(t, map[string]interface{}{"files": []string{"a.md"}}, env.Body)
}

func TestBuildSuccessProtocol(t *testing.T) {
	env := buildSuccess(EntryProtocol, tool.ToolAnalyzeFile, tool.Result{Payload: "an answer"}, "exec-1")
	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, map[string]interface{}{
		"execution_id": "exec-1",
		"result":       "an answer",
	}, env.Body)
}

func TestBuildSuccessProtocolDiscoverResolvesPaths(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	env := buildSuccess(EntryProtocol, tool.ToolDiscoverFiles, tool.Result{Payload: []string{"a.md", "/abs/b.md"}}, "exec-2")
	assert.Equal(t, map[string]interface{}{
		"execution_id": "exec-2",
		"result": map[string]interface{}{
			"files": []string{filepath.Join(wd, "a.md"), "/abs/b.md"},
			"count": 2,
		},
	}, env.Body)
}

func TestBuildErrorLegacyAlways200(t *testing.T) {
	// Old clients never see a non-200 status; errors live in the body.
	env := buildError(EntryLegacy, "something broke", http.StatusInternalServerError, "")
	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, map[string]interface{}{"error": "something broke"}, env.Body)
}

func TestBuildErrorGeneric(t *testing.T) {
	env := buildError(EntryGeneric, "Tool 'x' not found", http.StatusNotFound, "")
	assert.Equal(t, http.StatusNotFound, env.Status)
	assert.Equal(t, map[string]interface{}{"error": "Tool 'x' not found"}, env.Body)
}

func TestBuildErrorProtocolKeepsExecutionID(t *testing.T) {
	env := buildError(EntryProtocol, "Unknown tool: x", http.StatusNotFound, "exec-3")
	assert.Equal(t, http.StatusNotFound, env.Status)
	assert.Equal(t, map[string]interface{}{
		"error":        "Unknown tool: x",
		"execution_id": "exec-3",
	}, env.Body)
}
