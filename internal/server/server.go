package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/ironsheep/look-tools-mcp/internal/app"
	"github.com/ironsheep/look-tools-mcp/internal/event"
	"github.com/ironsheep/look-tools-mcp/internal/imaging"
)

// ServerName is reported in the initialize handshake.
const ServerName = "look-tools-mcp"

// Server handles MCP protocol communication
type Server struct {
	app     *app.App
	log     zerolog.Logger
	version string

	// updates counts pipeline recomputes since the last notification.
	updates int
	handle  event.Handle
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// New creates a server over the application context. The server follows
// pipeline updates until Close.
func New(a *app.App, version string) *Server {
	s := &Server{
		app:     a,
		log:     a.Log.With().Str("component", "server").Logger(),
		version: version,
	}
	s.handle = a.Pipeline.Updated().Subscribe(func(*imaging.Image) { s.updates++ })
	return s
}

// Close stops following pipeline updates.
func (s *Server) Close() {
	s.app.Pipeline.Updated().Unsubscribe(s.handle)
}

// Run serves requests from stdin, writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses,
// and a pipeline notification after any call that recomputed it, to w.
// Requests are handled one at a time.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn().Err(err).Msg("failed to parse request")
			continue
		}

		s.updates = 0
		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.Error().Err(err).Msg("failed to encode response")
			}
		}
		if n := s.updates; n > 0 {
			if err := encoder.Encode(s.updatedNotification(n)); err != nil {
				s.log.Error().Err(err).Msg("failed to encode notification")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// updatedNotification reports that the pipeline output changed n times
// during the last request.
func (s *Server) updatedNotification(n int) *MCPNotification {
	p := s.app.Pipeline
	data := map[string]interface{}{
		"pipeline":   p.Name(),
		"stages":     p.Len(),
		"recomputes": n,
	}
	if out := p.Output(); out != nil {
		data["width"] = out.Width
		data["height"] = out.Height
	}
	return &MCPNotification{
		JSONRPC: "2.0",
		Method:  "notifications/message",
		Params: map[string]interface{}{
			"level":  "info",
			"logger": "pipeline",
			"data":   data,
		},
	}
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools":   map[string]interface{}{},
				"logging": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    ServerName,
				"version": s.version,
			},
		},
	}
}
