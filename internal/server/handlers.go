package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/look-tools-mcp/internal/app"
	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/operator"
)

// DefaultPreviewSize bounds the longest side of look_preview images.
const DefaultPreviewSize = 512

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "look_load_image", "look_add_operator").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Debug().Err(err).Str("tool", params.Name).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Input
	case "look_load_image":
		return s.handleLoadImage(args)

	// Operator catalog
	case "look_list_operators":
		return s.handleListOperators()

	// Pipeline editing
	case "look_add_operator":
		return s.handleAddOperator(args)
	case "look_replace_operator":
		return s.handleReplaceOperator(args)
	case "look_delete_operator":
		return s.handleDeleteOperator(args)
	case "look_reset":
		return s.handleReset()
	case "look_list_stages":
		return s.handleListStages()
	case "look_set_parameter":
		return s.handleSetParameter(args)

	// Looks
	case "look_load_look":
		return s.handleLoadLook(args)
	case "look_save_look":
		return s.handleSaveLook(args)

	// Output
	case "look_sample_color":
		return s.handleSampleColor(args)
	case "look_preview":
		return s.handlePreview(args)
	case "look_save_output":
		return s.handleSaveOutput(args)
	case "look_export_lut":
		return s.handleExportLUT(args)
	case "look_stats":
		return s.handleStats()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments; missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	return json.Unmarshal(args, v)
}

// === Input Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

type loadImageResult struct {
	Path string `json:"path"`
	*imaging.ImageInfo
	Layout      string `json:"layout"`
	ProxyWidth  int    `json:"proxy_width"`
	ProxyHeight int    `json:"proxy_height"`
}

func (s *Server) handleLoadImage(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	img, err := s.app.LoadImage(a.Path)
	if err != nil {
		return nil, err
	}
	info, err := imaging.LoadImageInfo(s.app.Images, img.Source.Path)
	if err != nil {
		return nil, err
	}
	proxy := s.app.Pipeline.Input()
	return &loadImageResult{
		Path:        img.Source.Path,
		ImageInfo:   info,
		Layout:      img.Format().String(),
		ProxyWidth:  proxy.Width,
		ProxyHeight: proxy.Height,
	}, nil
}

// === Operator Catalog Handlers ===

func (s *Server) handleListOperators() (interface{}, error) {
	reg := s.app.Registry
	names := reg.Names()
	out := make([]OperatorTypeInfo, 0, len(names))
	for _, name := range names {
		proto := reg.Prototype(name)
		out = append(out, OperatorTypeInfo{
			Type:        name,
			Description: proto.Description(),
			Parameters:  describeParameters(proto),
		})
	}
	return map[string]interface{}{"operators": out}, nil
}

// === Pipeline Editing Handlers ===

type operatorArgs struct {
	Type  string `json:"type"`
	Path  string `json:"path"`
	Index *int   `json:"index"`
}

// create builds an operator from a type name or a file.
func (s *Server) create(a operatorArgs) (*operator.Operator, error) {
	switch {
	case a.Type != "" && a.Path != "":
		return nil, errors.New("give either type or path, not both")
	case a.Type != "":
		return s.app.Registry.CreateFromName(a.Type)
	case a.Path != "":
		return s.app.Registry.CreateFromPath(a.Path)
	default:
		return nil, errors.New("type or path is required")
	}
}

func (s *Server) handleAddOperator(args json.RawMessage) (interface{}, error) {
	var a operatorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	op, err := s.create(a)
	if err != nil {
		return nil, err
	}
	p := s.app.Pipeline
	index := p.Len()
	if a.Index != nil {
		index = *a.Index
		if err := p.Insert(index, op); err != nil {
			return nil, err
		}
	} else {
		p.Add(op)
	}
	return describeStage(index, op), nil
}

func (s *Server) handleReplaceOperator(args json.RawMessage) (interface{}, error) {
	var a operatorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Index == nil {
		return nil, errors.New("index is required")
	}
	op, err := s.create(a)
	if err != nil {
		return nil, err
	}
	if _, err := s.app.Pipeline.Replace(*a.Index, op); err != nil {
		return nil, err
	}
	return describeStage(*a.Index, op), nil
}

type indexArgs struct {
	Index int `json:"index"`
}

func (s *Server) handleDeleteOperator(args json.RawMessage) (interface{}, error) {
	var a indexArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.app.Pipeline.Delete(a.Index); err != nil {
		return nil, err
	}
	return map[string]interface{}{"deleted": a.Index, "stages": s.app.Pipeline.Len()}, nil
}

func (s *Server) handleReset() (interface{}, error) {
	s.app.Pipeline.Reset()
	return map[string]interface{}{"stages": 0}, nil
}

func (s *Server) handleListStages() (interface{}, error) {
	p := s.app.Pipeline
	stages := make([]StageInfo, p.Len())
	for i, op := range p.Operators() {
		stages[i] = describeStage(i, op)
	}
	return map[string]interface{}{
		"pipeline": p.Name(),
		"stages":   stages,
	}, nil
}

type setParameterArgs struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (s *Server) handleSetParameter(args json.RawMessage) (interface{}, error) {
	var a setParameterArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	op := s.app.Pipeline.Operator(a.Index)
	if op == nil {
		return nil, fmt.Errorf("no operator at index %d", a.Index)
	}
	if err := op.SetParameter(a.Name, a.Value); err != nil {
		return nil, err
	}
	return describeStage(a.Index, op), nil
}

// === Look Handlers ===

func (s *Server) handleLoadLook(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if _, err := s.app.LoadLook(a.Path); err != nil {
		return nil, err
	}
	return s.handleListStages()
}

func (s *Server) handleSaveLook(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if err := s.app.SaveLook(a.Path); err != nil {
		return nil, err
	}
	return map[string]interface{}{"path": s.app.LookPath(), "stages": s.app.Pipeline.Len()}, nil
}

// === Output Handlers ===

type sampleColorArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	p := s.app.Pipeline
	if p.Input() == nil {
		return nil, app.ErrNoImage
	}
	in, err := imaging.SampleColor(p.Input(), a.X, a.Y)
	if err != nil {
		return nil, err
	}
	out, err := imaging.SampleColor(p.Output(), a.X, a.Y)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"x": a.X, "y": a.Y, "input": in, "output": out}, nil
}

type previewArgs struct {
	MaxSize int    `json:"max_size"`
	Source  string `json:"source"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MaxSize <= 0 {
		a.MaxSize = DefaultPreviewSize
	}

	var img *imaging.Image
	switch a.Source {
	case "", "output":
		img = s.app.Pipeline.Output()
	case "input":
		img = s.app.Pipeline.Input()
	default:
		return nil, fmt.Errorf("unknown preview source %q", a.Source)
	}
	if img == nil {
		return nil, app.ErrNoImage
	}
	return img.Fit(a.MaxSize, a.MaxSize).EncodePNGBase64()
}

func (s *Server) handleSaveOutput(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if err := s.app.SaveOutput(a.Path); err != nil {
		return nil, err
	}
	src := s.app.Source()
	return map[string]interface{}{"path": a.Path, "width": src.Width, "height": src.Height}, nil
}

type exportLUTArgs struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

func (s *Server) handleExportLUT(args json.RawMessage) (interface{}, error) {
	var a exportLUTArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if a.Size == 0 {
		a.Size = s.app.Config.LUTSize
	}
	if err := s.app.ExportLUT(a.Path, a.Size); err != nil {
		return nil, err
	}
	return map[string]interface{}{"path": a.Path, "size": a.Size, "stages": s.app.Pipeline.Len()}, nil
}

func (s *Server) handleStats() (interface{}, error) {
	samples, err := gatherMetrics(s.app.Gatherer())
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	return map[string]interface{}{"metrics": samples}, nil
}
