// Package server exposes a tools.Registry as a Model Context Protocol server.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"goa.design/clue/log"

	"github.com/jbdamask/toolhost/pkg/tools"
)

const Name = "toolhost"

// New returns an MCP server that publishes every tool in reg.
func New(reg *tools.Registry, version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: Name, Version: version}, nil)
	for _, def := range reg.List() {
		srv.AddTool(&mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.Schema,
		}, handler(reg, def.Name))
	}
	return srv
}

// handler adapts a registry tool to the SDK. Domain failures are reported in
// the result with IsError set, never as a protocol error.
func handler(reg *tools.Registry, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := decodeArgs(req.Params.Arguments)
		if err != nil {
			log.Warn(ctx, log.KV{K: "msg", V: "undecodable arguments"}, log.KV{K: "tool", V: name}, log.KV{K: "err", V: err.Error()})
			return textResult(tools.FailureMarker + " Invalid input: arguments must be a JSON object."), nil
		}
		return textResult(reg.Call(ctx, name, args)), nil
	}
}

func decodeArgs(raw json.RawMessage) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return args, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: tools.IsFailure(text),
	}
}

// Run serves srv over stdio until the client disconnects or ctx is done.
// Both count as a clean shutdown.
func Run(ctx context.Context, srv *mcp.Server) error {
	log.Info(ctx, log.KV{K: "msg", V: "serving over stdio"})
	err := srv.Run(ctx, &mcp.StdioTransport{})
	if err != nil && (ctx.Err() != nil || disconnected(err)) {
		log.Info(ctx, log.KV{K: "msg", V: "client disconnected"}, log.KV{K: "reason", V: err.Error()})
		return nil
	}
	return err
}

// disconnected reports whether err means the client went away: stdin hit
// EOF, possibly while the SDK was still finishing an in-flight call.
func disconnected(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "server is closing") || strings.HasSuffix(msg, "EOF")
}
