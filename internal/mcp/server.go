// Package mcp exposes the review pipeline as MCP tools so agent tooling
// can request reviews over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/reviewgate/internal/gate"
	"github.com/joescharf/reviewgate/internal/git"
	"github.com/joescharf/reviewgate/internal/models"
	"github.com/joescharf/reviewgate/internal/output"
	"github.com/joescharf/reviewgate/internal/pipeline"
	"github.com/joescharf/reviewgate/internal/selector"
)

// Server wraps the review pipeline and exposes it as MCP tools.
type Server struct {
	git      git.Client
	pipe     *pipeline.Pipeline
	selector *selector.Selector
	cfg      pipeline.Config
}

// NewServer creates the MCP server wrapper. Terminal rendering is
// suppressed; tool results carry the verdicts as JSON instead.
func NewServer(gc git.Client, reviewer pipeline.Reviewer, cfg pipeline.Config) (*Server, error) {
	quiet := &output.UI{Out: io.Discard, ErrOut: io.Discard}
	pipe, err := pipeline.New(gc, reviewer, quiet, cfg)
	if err != nil {
		return nil, err
	}
	return &Server{
		git:      gc,
		pipe:     pipe,
		selector: selector.New(gc, cfg.Extensions, quiet),
		cfg:      cfg,
	}, nil
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("reviewgate", "1.0.0", server.WithToolCapabilities(true))
	srv.AddTool(s.reviewFileTool())
	srv.AddTool(s.reviewStagedTool())
	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// reviewOut is the JSON shape returned by both tools.
type reviewOut struct {
	RunID    string            `json:"run_id"`
	Passed   bool              `json:"passed"`
	Failed   []string          `json:"failed,omitempty"`
	Verdicts []*models.Verdict `json:"verdicts"`
}

func (s *Server) resultFor(report *models.Report) (*mcp.CallToolResult, error) {
	res := gate.Gate{Threshold: s.cfg.Threshold, FailOpen: s.cfg.FailOpen}.Evaluate(report)

	out := reviewOut{
		RunID:  report.RunID,
		Passed: res.Passed,
		Failed: res.Failed,
	}
	for _, path := range report.Paths() {
		out.Verdicts = append(out.Verdicts, report.Verdicts[path])
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal verdicts: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// review_file
func (s *Server) reviewFileTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("review_file",
		mcp.WithDescription("Run an LLM code review on a single file. Returns a JSON verdict with a 0-100 score, categorized issues, and whether the file passes the configured threshold."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path relative to the repository root")),
	)
	return tool, s.handleReviewFile
}

func (s *Server) handleReviewFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	if !s.selector.Supported(path) {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported file type: %s", path)), nil
	}

	root, err := s.git.RepoRoot(".")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not a git repository: %v", err)), nil
	}
	file, err := s.selector.Load(root, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot read %s: %v", path, err)), nil
	}

	report := s.pipe.Review(ctx, []models.ReviewableFile{file})
	return s.resultFor(report)
}

// review_staged
func (s *Server) reviewStagedTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("review_staged",
		mcp.WithDescription("Run an LLM code review on all staged and new files, exactly as the pre-commit gate would. Returns JSON verdicts and the overall pass/fail decision."),
	)
	return tool, s.handleReviewStaged
}

func (s *Server) handleReviewStaged(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := s.git.RepoRoot(".")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not a git repository: %v", err)), nil
	}
	files, err := s.selector.Select(root)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list files: %v", err)), nil
	}
	if len(files) == 0 {
		return mcp.NewToolResultText(`{"passed":true,"verdicts":[]}`), nil
	}

	report := s.pipe.Review(ctx, files)
	return s.resultFor(report)
}
