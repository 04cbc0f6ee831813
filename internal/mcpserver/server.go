// Package mcpserver exposes extraction and comparison as MCP tools over
// stdio, so document review agents can drive structural form diffs.
package mcpserver

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/formlens/formdiff/internal/config"
	"github.com/formlens/formdiff/internal/descriptions"
	"github.com/formlens/formdiff/internal/report"
	"github.com/formlens/formdiff/internal/service"
)

// Server represents the MCP server instance.
type Server struct {
	config    *config.Config
	svc       *service.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(cfg *config.Config, svc *service.Service) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		svc:       svc,
		mcpServer: mcpServer,
	}
	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"form_extract_file",
		mcp.WithDescription(descriptions.FormExtractFileDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractFile)

	compareTool := mcp.NewTool(
		"form_compare_files",
		mcp.WithDescription(descriptions.FormCompareFilesDescription),
		mcp.WithString("source_path",
			mcp.Required(),
			mcp.Description("Full path to the source (older) PDF file"),
		),
		mcp.WithString("target_path",
			mcp.Required(),
			mcp.Description("Full path to the target (newer) PDF file"),
		),
	)
	s.mcpServer.AddTool(compareTool, s.handleCompareFiles)

	exportTool := mcp.NewTool(
		"form_export_xlsx",
		mcp.WithDescription(descriptions.FormExportXLSXDescription),
		mcp.WithString("source_path",
			mcp.Required(),
			mcp.Description("Full path to the source (older) PDF file"),
		),
		mcp.WithString("target_path",
			mcp.Required(),
			mcp.Description("Full path to the target (newer) PDF file"),
		),
		mcp.WithString("output_path",
			mcp.Required(),
			mcp.Description("Path the XLSX report is written to"),
		),
	)
	s.mcpServer.AddTool(exportTool, s.handleExportXLSX)

	infoTool := mcp.NewTool(
		"form_server_info",
		mcp.WithDescription(descriptions.FormServerInfoDescription),
	)
	s.mcpServer.AddTool(infoTool, s.handleServerInfo)
}

func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ext, err := s.svc.ExtractFile(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Extracted %s (version %s)\n", ext.Path, ext.ID)
	fmt.Fprintf(&text, "Pages: %d\n", ext.Result.Meta.PageCount)
	fmt.Fprintf(&text, "Fields: %d\n", len(ext.Result.Fields))
	if ext.Empty {
		text.WriteString("\nThe document is valid but contains no interactive form fields.\n")
	}
	for _, rec := range ext.Result.Fields {
		fmt.Fprintf(&text, "\n- %s (%s, page %d, order %d)", rec.FieldID, rec.Type, rec.PageNumber, rec.PageOrder)
		if rec.NearText != nil {
			fmt.Fprintf(&text, " label: %q", *rec.NearText)
		}
		if rec.ValueOptions != nil {
			fmt.Fprintf(&text, " options: %v", rec.ValueOptions)
		}
	}
	if len(ext.Result.Diagnostics) > 0 {
		text.WriteString("\n\nDiagnostics:\n")
		for _, d := range ext.Result.Diagnostics {
			fmt.Fprintf(&text, "  page %d, field %s: %s\n", d.PageNumber, d.FieldID, d.Message)
		}
	}
	return mcp.NewToolResultText(text.String()), nil
}

func (s *Server) handleCompareFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourcePath, err := request.RequireString("source_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	targetPath, err := request.RequireString("target_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cmp, err := s.svc.CompareFiles(ctx, sourcePath, targetPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Comparison %s\n\n%s",
		cmp.ID, report.Text(cmp.Result, sourcePath, targetPath))
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleExportXLSX(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourcePath, err := request.RequireString("source_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	targetPath, err := request.RequireString("target_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outputPath, err := request.RequireString("output_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cmp, err := s.svc.CompareFiles(ctx, sourcePath, targetPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := report.XLSX(cmp.Result, sourcePath, targetPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := os.WriteFile(outputPath, data, 0o600); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Wrote comparison %s to %s (%d field changes, %.1f%% modified)",
		cmp.ID, outputPath, len(cmp.Result.FieldChanges),
		cmp.Result.GlobalMetrics.ModificationPercentage)
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var text strings.Builder
	fmt.Fprintf(&text, "%s %s\n\n", s.config.ServerName, s.config.Version)
	fmt.Fprintf(&text, "Position tolerance: %.2f coordinate units per edge\n", s.config.PositionTolerance)
	fmt.Fprintf(&text, "Label normalization: %t\n", s.config.NormalizeLabels)
	if s.config.DatabasePath != "" {
		fmt.Fprintf(&text, "Result store: %s\n", s.config.DatabasePath)
	} else {
		text.WriteString("Result store: disabled\n")
	}
	text.WriteString("\nAvailable tools:\n")
	text.WriteString("  form_extract_file    Extract the form-field structure of one PDF\n")
	text.WriteString("  form_compare_files   Compare the form structure of two PDF versions\n")
	text.WriteString("  form_export_xlsx     Write a comparison report as an XLSX workbook\n")
	text.WriteString("  form_server_info     This information\n")
	return mcp.NewToolResultText(text.String()), nil
}

// Run starts the MCP server on stdio.
func (s *Server) Run(_ context.Context) error {
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
