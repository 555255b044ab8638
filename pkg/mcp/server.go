// Package mcp exposes grove's operations as MCP tools over a JSON-RPC
// 2.0 stdio transport, so coding agents can drive worktrees directly.
// The loop is a thin dispatch table; all decisions live in pkg/commands.
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/grovekit/grove/pkg/commands"
	"github.com/grovekit/grove/pkg/logging"
)

const protocolVersion = "2024-11-05"

// JSON-RPC 2.0 error codes used by the server.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
)

// Server handles one JSON-RPC request per input line, synchronously.
type Server struct {
	runner  *commands.Runner
	version string
	logger  zerolog.Logger
}

// NewServer returns a Server dispatching into runner.
func NewServer(runner *commands.Runner, version string) *Server {
	return &Server{
		runner:  runner,
		version: version,
		logger:  logging.GetLogger("mcp"),
	}
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func okResponse(id json.RawMessage, result interface{}) response {
	return response{JSONRPC: "2.0", ID: id, Result: result}
}

func errResponse(id json.RawMessage, code int, message string) response {
	return response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}

// Run reads line-delimited requests from in until EOF, writing one
// response line per request. Notifications (no id) get no response.
func (s *Server) Run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			if err := encoder.Encode(errResponse(json.RawMessage("null"), codeParseError,
				fmt.Sprintf("parse error: %v", err))); err != nil {
				return err
			}
			continue
		}

		if len(req.ID) == 0 || string(req.ID) == "null" {
			s.logger.Debug().Str("method", req.Method).Msg("Ignoring notification")
			continue
		}

		if err := encoder.Encode(s.dispatch(req)); err != nil {
			return err
		}
	}

	return scanner.Err()
}

func (s *Server) dispatch(req request) response {
	s.logger.Debug().Str("method", req.Method).Msg("Dispatching request")

	switch req.Method {
	case "initialize":
		return okResponse(req.ID, map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]interface{}{"tools": map[string]interface{}{}},
			"serverInfo": map[string]interface{}{
				"name":    "grove",
				"version": s.version,
			},
		})

	case "tools/list":
		return okResponse(req.ID, map[string]interface{}{"tools": toolDefinitions()})

	case "tools/call":
		var params struct {
			Name      string          `json:"name"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return okResponse(req.ID, toolError(fmt.Sprintf("bad params: %v", err)))
		}

		text, err := s.callTool(params.Name, params.Arguments)
		if err != nil {
			return okResponse(req.ID, toolError(fmt.Sprintf("Error: %v", err)))
		}
		return okResponse(req.ID, toolText(text))

	default:
		return errResponse(req.ID, codeMethodNotFound,
			fmt.Sprintf("method not found: %s", req.Method))
	}
}

// toolText wraps successful tool output in MCP content form.
func toolText(text string) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{{"type": "text", "text": text}},
	}
}

// toolError reports a failed tool call as content with isError, which is
// how MCP distinguishes tool failures from transport failures.
func toolError(text string) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{{"type": "text", "text": text}},
		"isError": true,
	}
}
