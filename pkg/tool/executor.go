package tool

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/harun/mcpbridge/pkg/completion"
	"github.com/harun/mcpbridge/pkg/fileops"
)

// promptTemplate embeds file content and the user query into the fixed
// analysis prompt.
const promptTemplate = "Here is the content from a file:\n\n%s\n\nUser query: %s\n\nPlease respond to the user query based on the file content."

// DefaultBackendTimeout bounds a single completion backend call. The backend
// is a blocking synchronous collaborator; without a deadline a stuck backend
// would wedge the request.
const DefaultBackendTimeout = 120 * time.Second

// Result is a successful tool execution.
type Result struct {
	Payload interface{}
}

// Failure is a failed tool execution with its HTTP status mapping.
type Failure struct {
	Message string
	Status  int
}

// Executor runs validated tool invocations by delegating to the bridge's
// collaborators: the file reader, the glob finder, and the completion backend.
// It never lets a collaborator fault escape; every problem is converted to a
// Failure or a degraded answer string.
type Executor struct {
	backend   completion.Provider
	timeout   time.Duration
	readFile  func(path string) string
	findFiles func(searchPath string) ([]string, error)
	logger    zerolog.Logger
}

// NewExecutor creates an executor backed by the real collaborators.
func NewExecutor(backend completion.Provider, timeout time.Duration, logger zerolog.Logger) *Executor {
	if timeout <= 0 {
		timeout = DefaultBackendTimeout
	}
	return &Executor{
		backend:   backend,
		timeout:   timeout,
		readFile:  fileops.ReadFileContent,
		findFiles: fileops.FindFiles,
		logger:    logger,
	}
}

// SetFileReader replaces the file-reading collaborator.
func (e *Executor) SetFileReader(readFile func(path string) string) {
	e.readFile = readFile
}

// SetFileFinder replaces the glob-finding collaborator.
func (e *Executor) SetFileFinder(findFiles func(searchPath string) ([]string, error)) {
	e.findFiles = findFiles
}

// Execute runs a tool by name. The caller is responsible for registry
// membership and required-parameter validation; an unknown name reaching this
// point still fails safely.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]interface{}) (Result, *Failure) {
	start := time.Now()

	switch name {
	case ToolAnalyzeFile:
		result := e.analyzeFile(ctx, stringArg(args, "file_path"), stringArg(args, "query"))
		e.logger.Debug().
			Str("tool", name).
			Dur("duration", time.Since(start)).
			Msg("Tool execution completed")
		return result, nil

	case ToolDiscoverFiles:
		result, failure := e.discoverFiles(stringArg(args, "directory"), stringArg(args, "pattern"))
		if failure != nil {
			e.logger.Error().
				Str("tool", name).
				Str("error", failure.Message).
				Msg("Tool execution failed")
			return Result{}, failure
		}
		e.logger.Debug().
			Str("tool", name).
			Dur("duration", time.Since(start)).
			Msg("Tool execution completed")
		return result, nil

	default:
		e.logger.Error().Str("tool", name).Msg("Tool not found")
		return Result{}, &Failure{Message: "Unknown tool", Status: http.StatusNotFound}
	}
}

// analyzeFile reads the file, composes the analysis prompt, and asks the
// completion backend. Backend failures degrade into a descriptive answer
// rather than an error: a language-model call never hard-fails the request.
func (e *Executor) analyzeFile(ctx context.Context, filePath, query string) Result {
	content := e.readFile(filePath)
	prompt := BuildPrompt(content, query)

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	answer, err := e.backend.Complete(callCtx, prompt)
	if err != nil {
		e.logger.Warn().
			Err(err).
			Str("provider", e.backend.Name()).
			Msg("Completion backend call failed")
		answer = fmt.Sprintf("Failed to call completion backend: %v", err)
	}

	return Result{Payload: answer}
}

// discoverFiles delegates to the recursive glob finder. The payload carries
// the raw matches; path resolution is an envelope concern.
func (e *Executor) discoverFiles(directory, pattern string) (Result, *Failure) {
	searchPath := fileops.SearchPath(directory, pattern)

	matches, err := e.findFiles(searchPath)
	if err != nil {
		return Result{}, &Failure{
			Message: fmt.Sprintf("Error discovering files: %v", err),
			Status:  http.StatusInternalServerError,
		}
	}

	return Result{Payload: matches}, nil
}

// BuildPrompt composes the fixed-template analysis prompt.
func BuildPrompt(fileContent, query string) string {
	return fmt.Sprintf(promptTemplate, fileContent, query)
}

func stringArg(args map[string]interface{}, name string) string {
	if args == nil {
		return ""
	}
	s, _ := args[name].(string)
	return s
}
