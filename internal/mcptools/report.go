// Package mcptools exposes report generation as MCP tools.
//
// Each tool is a struct with its dependencies injected via constructor,
// a Definition() returning the mcp.Tool schema and a Handle() method.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dotcommander/innerscope/internal/output"
	"github.com/dotcommander/innerscope/internal/profile"
	"github.com/dotcommander/innerscope/internal/service"
)

// ReportTool handles the generate_report MCP tool.
type ReportTool struct {
	svc *service.ReportService
}

// NewReportTool creates a ReportTool backed by svc.
func NewReportTool(svc *service.ReportService) *ReportTool {
	return &ReportTool{svc: svc}
}

// Definition returns the MCP tool definition for generate_report.
func (t *ReportTool) Definition() mcp.Tool {
	return mcp.NewTool("generate_report",
		mcp.WithDescription(
			"Generate a psychological intelligence report from a user profile: stories, conversation messages, assessment results and usage stats.",
		),
		mcp.WithString("profile",
			mcp.Required(),
			mcp.Description("Profile document as JSON with optional keys userId, asOf, stories, conversations, assessments, userStats"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: json (default) or markdown"),
			mcp.Enum("json", "markdown"),
		),
	)
}

// Handle processes the generate_report tool call.
func (t *ReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := req.GetString("profile", "")
	if doc == "" {
		return mcp.NewToolResultError("'profile' is required"), nil
	}
	format := req.GetString("format", "json")
	if format != "json" && format != "markdown" {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q: use json or markdown", format)), nil
	}

	res, err := t.svc.ForDocument(ctx, []byte(doc), profile.EncodingJSON)
	if err != nil {
		var invalid *service.InvalidProfileError
		if errors.As(err, &invalid) {
			return mcp.NewToolResultError(invalid.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to generate report: %v", err)), nil
	}

	if format == "markdown" {
		return mcp.NewToolResultText(output.RenderMarkdown(output.Entry{
			Report: res.Report,
			Issues: res.Warnings,
		})), nil
	}

	data, err := json.MarshalIndent(res.Report, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// NewServer creates an MCP server with every innerscope tool registered.
func NewServer(version string, svc *service.ReportService) *server.MCPServer {
	s := server.NewMCPServer(
		"innerscope",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	reportTool := NewReportTool(svc)
	s.AddTool(reportTool.Definition(), reportTool.Handle)

	return s
}
