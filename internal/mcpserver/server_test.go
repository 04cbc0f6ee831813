package mcpserver

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlens/formdiff/internal/config"
	"github.com/formlens/formdiff/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	svc := service.New(cfg, nil, nil)

	s, err := NewServer(cfg, svc)
	require.NoError(t, err)
	return s
}

func textFromResult(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			return tc.Text
		}
		if tc, ok := content.(*mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestNewServer(t *testing.T) {
	s := newTestServer(t)
	assert.NotNil(t, s.mcpServer)
}

func TestNewServer_NilService(t *testing.T) {
	_, err := NewServer(config.DefaultConfig(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service cannot be nil")
}

func TestHandleServerInfo(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleServerInfo(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	text := textFromResult(result)
	assert.Contains(t, text, s.config.ServerName)
	assert.Contains(t, text, "form_extract_file")
	assert.Contains(t, text, "form_compare_files")
	assert.Contains(t, text, "form_export_xlsx")
	assert.Contains(t, text, "Result store: disabled")
}

func TestHandleExtractFile_MissingPathArgument(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleExtractFile(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleExtractFile_NonexistentFile(t *testing.T) {
	s := newTestServer(t)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"path": "/nonexistent/form.pdf",
			},
		},
	}

	result, err := s.handleExtractFile(context.Background(), request)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleCompareFiles_MissingArguments(t *testing.T) {
	s := newTestServer(t)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"source_path": "/forms/v1.pdf",
			},
		},
	}

	result, err := s.handleCompareFiles(context.Background(), request)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
