package bridge

import (
	"net/http"

	"github.com/harun/mcpbridge/pkg/fileops"
	"github.com/harun/mcpbridge/pkg/tool"
)

// EntryPoint identifies which of the bridge's entry points produced a
// response. All three share one validation/execution core but differ in
// envelope shape and status policy.
type EntryPoint int

const (
	// EntryLegacy is the backward-compatible /mcp_query endpoint. It always
	// answers 200 with errors embedded in the body; old clients never see a
	// non-200 status.
	EntryLegacy EntryPoint = iota

	// EntryGeneric is the execute-by-name /mcp/tools/{name} endpoint.
	EntryGeneric

	// EntryProtocol is the MCP-compliant /mcp/execute endpoint. Every
	// response, success or error, carries an execution identifier.
	EntryProtocol
)

// Envelope is a built response body plus its HTTP status code.
type Envelope struct {
	Body   map[string]interface{}
	Status int
}

// buildSuccess wraps a tool result into the entry point's success shape.
// Intentional asymmetry, kept from the original contract: the generic route
// returns discovery matches raw under "files", while the protocol route
// resolves them to absolute paths and adds a count under "result".
func buildSuccess(entry EntryPoint, toolName string, result tool.Result, executionID string) Envelope {
	switch entry {
	case EntryLegacy:
		return Envelope{
			Body:   map[string]interface{}{"answer": result.Payload},
			Status: http.StatusOK,
		}

	case EntryGeneric:
		if toolName == tool.ToolDiscoverFiles {
			return Envelope{
				Body:   map[string]interface{}{"files": result.Payload},
				Status: http.StatusOK,
			}
		}
		return Envelope{
			Body:   map[string]interface{}{"result": result.Payload},
			Status: http.StatusOK,
		}

	default: // EntryProtocol
		payload := result.Payload
		if toolName == tool.ToolDiscoverFiles {
			matches, _ := result.Payload.([]string)
			files := fileops.AbsolutePaths(matches)
			payload = map[string]interface{}{
				"files": files,
				"count": len(files),
			}
		}
		return Envelope{
			Body: map[string]interface{}{
				"execution_id": executionID,
				"result":       payload,
			},
			Status: http.StatusOK,
		}
	}
}

// buildError wraps a failure into the entry point's error shape. The legacy
// entry point forces status 200 regardless of the failure; the protocol entry
// point preserves the execution identifier on the error path.
func buildError(entry EntryPoint, message string, status int, executionID string) Envelope {
	switch entry {
	case EntryLegacy:
		return Envelope{
			Body:   map[string]interface{}{"error": message},
			Status: http.StatusOK,
		}

	case EntryGeneric:
		return Envelope{
			Body:   map[string]interface{}{"error": message},
			Status: status,
		}

	default: // EntryProtocol
		return Envelope{
			Body: map[string]interface{}{
				"error":        message,
				"execution_id": executionID,
			},
			Status: status,
		}
	}
}
