package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/harun/mcpbridge/pkg/tool"
)

// legacyQueryRequest is the body of the backward-compatible /mcp_query route.
type legacyQueryRequest struct {
	Prompt   string `json:"prompt"`
	FilePath string `json:"file_path"`
}

// executeRequest is the body of the MCP-compliant /mcp/execute route.
type executeRequest struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, Envelope{
		Body:   map[string]interface{}{"status": "MCP Bridge API is running"},
		Status: http.StatusOK,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, Envelope{
		Body:   map[string]interface{}{"status": "ok"},
		Status: http.StatusOK,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, Envelope{
		Body:   map[string]interface{}{"version": ProtocolVersion},
		Status: http.StatusOK,
	})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, Envelope{
		Body:   map[string]interface{}{"tools": s.registry.List()},
		Status: http.StatusOK,
	})
}

// handleListResources always reports an empty list: the bridge has no
// resource model.
func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, Envelope{
		Body:   map[string]interface{}{"resources": []interface{}{}},
		Status: http.StatusOK,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, Envelope{
		Body:   map[string]interface{}{"metrics": s.metricsTracker.GetMetrics()},
		Status: http.StatusOK,
	})
}

// handleLegacyQuery serves the backward-compatible analysis endpoint. It
// never returns a non-200 status: old clients expect errors embedded in the
// body.
func (s *Server) handleLegacyQuery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req legacyQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, buildError(EntryLegacy, fmt.Sprintf("Exception processing request: %v", err), http.StatusOK, ""))
		return
	}

	// The legacy route performs no validation: an empty file_path is handled
	// by the file reader's placeholder text.
	result, failure := s.executor.Execute(r.Context(), tool.ToolAnalyzeFile, map[string]interface{}{
		"file_path": req.FilePath,
		"query":     req.Prompt,
	})
	if failure != nil {
		s.observe("/mcp_query", tool.ToolAnalyzeFile, "", false, start)
		s.writeJSON(w, buildError(EntryLegacy, failure.Message, failure.Status, ""))
		return
	}

	s.observe("/mcp_query", tool.ToolAnalyzeFile, "", true, start)
	s.writeJSON(w, buildSuccess(EntryLegacy, tool.ToolAnalyzeFile, result, ""))
}

// handleGenericExecute serves POST /mcp/tools/{tool}: execute a tool by name
// with a tool-specific arguments object.
func (s *Server) handleGenericExecute(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	toolName := r.PathValue("tool")

	schema, ok := s.registry.Get(toolName)
	if !ok {
		s.writeJSON(w, buildError(EntryGeneric, fmt.Sprintf("Tool '%s' not found", toolName), http.StatusNotFound, ""))
		return
	}

	args, err := decodeArguments(r)
	if err != nil {
		s.writeJSON(w, buildError(EntryGeneric, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest, ""))
		return
	}

	if missing := tool.MissingParameters(schema, args); len(missing) > 0 {
		s.writeJSON(w, buildError(EntryGeneric, "Missing required parameters", http.StatusBadRequest, ""))
		return
	}
	if err := s.registry.ValidateArguments(toolName, args); err != nil {
		s.writeJSON(w, buildError(EntryGeneric, err.Error(), http.StatusBadRequest, ""))
		return
	}

	result, failure := s.executor.Execute(r.Context(), toolName, args)
	if failure != nil {
		s.observe("/mcp/tools", toolName, "", false, start)
		s.writeJSON(w, buildError(EntryGeneric, failure.Message, failure.Status, ""))
		return
	}

	s.observe("/mcp/tools", toolName, "", true, start)
	s.writeJSON(w, buildSuccess(EntryGeneric, toolName, result, ""))
}

// handleProtocolExecute serves POST /mcp/execute: the MCP-compliant entry
// point. A fresh execution identifier is generated before anything else so
// that every response for this request, including rejections, carries it.
func (s *Server) handleProtocolExecute(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	executionID := uuid.NewString()

	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, buildError(EntryProtocol, fmt.Sprintf("Exception processing request: %v", err), http.StatusInternalServerError, executionID))
		return
	}

	schema, ok := s.registry.Get(req.Name)
	if !ok {
		s.writeJSON(w, buildError(EntryProtocol, fmt.Sprintf("Unknown tool: %s", req.Name), http.StatusNotFound, executionID))
		return
	}

	if missing := tool.MissingParameters(schema, req.Arguments); len(missing) > 0 {
		message := fmt.Sprintf("Missing required parameters: %s", tool.RequiredList(schema))
		s.writeJSON(w, buildError(EntryProtocol, message, http.StatusBadRequest, executionID))
		return
	}
	if err := s.registry.ValidateArguments(req.Name, req.Arguments); err != nil {
		s.writeJSON(w, buildError(EntryProtocol, err.Error(), http.StatusBadRequest, executionID))
		return
	}

	result, failure := s.executor.Execute(r.Context(), req.Name, req.Arguments)
	if failure != nil {
		s.observe("/mcp/execute", req.Name, executionID, false, start)
		s.writeJSON(w, buildError(EntryProtocol, failure.Message, failure.Status, executionID))
		return
	}

	s.observe("/mcp/execute", req.Name, executionID, true, start)
	s.writeJSON(w, buildSuccess(EntryProtocol, req.Name, result, executionID))
}

// observe records invocation metrics and broadcasts the execution event.
func (s *Server) observe(route, toolName, executionID string, success bool, start time.Time) {
	durationMs := float64(time.Since(start).Milliseconds())
	s.metricsTracker.Track(route, toolName, success, durationMs)

	data := map[string]interface{}{
		"tool":        toolName,
		"route":       route,
		"success":     success,
		"duration_ms": durationMs,
	}
	if executionID != "" {
		data["execution_id"] = executionID
	}

	go s.broadcaster.Broadcast("tool.executed", data)
}

// decodeArguments parses a tool-specific arguments object. An empty body is
// treated as an empty argument map so that required-parameter validation
// produces the protocol's 400 rather than a parse error.
func decodeArguments(r *http.Request) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]interface{}{}, nil
		}
		return nil, err
	}
	return args, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(envelope.Status)
	if err := json.NewEncoder(w).Encode(envelope.Body); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response body")
	}
}
