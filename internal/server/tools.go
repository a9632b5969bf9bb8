package server

import (
	"strings"

	"github.com/ironsheep/look-tools-mcp/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func schema(props map[string]interface{}, required ...string) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Input
		{
			Name:        "look_load_image",
			Description: "Load an image file as the pipeline input. The pipeline works on a proxy scaled to fit the configured proxy size; the full resolution image is kept for look_save_output. Formats: " + strings.Join(imaging.SupportedExtensions(), ", "),
			InputSchema: schema(map[string]interface{}{
				"path": prop("string", "Path to the image file, absolute or relative to the Image Base Folder setting"),
			}, "path"),
		},

		// Operator catalog
		{
			Name:        "look_list_operators",
			Description: "List the operator types that can be added to the pipeline, with their parameters and defaults.",
			InputSchema: schema(map[string]interface{}{}),
		},

		// Pipeline editing
		{
			Name:        "look_add_operator",
			Description: "Create an operator, by type name or from a file an operator type recognizes (.cube, .spi1d, .js, .colorspace.yaml), and add it to the pipeline. Appends unless index is given; index 0 is the front.",
			InputSchema: schema(map[string]interface{}{
				"type":  prop("string", "Operator type name from look_list_operators"),
				"path":  prop("string", "File to build the operator from, instead of type"),
				"index": prop("integer", "Optional insert position"),
			}),
		},
		{
			Name:        "look_replace_operator",
			Description: "Replace the operator at index with a new one built by type name or from a file.",
			InputSchema: schema(map[string]interface{}{
				"index": prop("integer", "Position of the operator to replace (0-based)"),
				"type":  prop("string", "Operator type name"),
				"path":  prop("string", "File to build the operator from, instead of type"),
			}, "index"),
		},
		{
			Name:        "look_delete_operator",
			Description: "Remove the operator at index from the pipeline.",
			InputSchema: schema(map[string]interface{}{
				"index": prop("integer", "Position of the operator to remove (0-based)"),
			}, "index"),
		},
		{
			Name:        "look_reset",
			Description: "Remove every operator from the pipeline.",
			InputSchema: schema(map[string]interface{}{}),
		},
		{
			Name:        "look_list_stages",
			Description: "List the pipeline operators in order with their labels, identity state and parameter values.",
			InputSchema: schema(map[string]interface{}{}),
		},
		{
			Name:        "look_set_parameter",
			Description: "Set a parameter of the operator at index from its text form. Sliders take numbers, Bool takes true/false, Matrix takes 16 numbers. The pipeline output updates immediately.",
			InputSchema: schema(map[string]interface{}{
				"index": prop("integer", "Position of the operator (0-based)"),
				"name":  prop("string", "Parameter name, e.g. Opacity"),
				"value": prop("string", "New value"),
			}, "index", "name", "value"),
		},

		// Looks
		{
			Name:        "look_load_look",
			Description: "Replace the pipeline operators with those of a look file (.yaml, .json or .toml).",
			InputSchema: schema(map[string]interface{}{
				"path": prop("string", "Look file, absolute or relative to the Look Base Folder setting"),
			}, "path"),
		},
		{
			Name:        "look_save_look",
			Description: "Write the pipeline operators and their non-default parameters to a look file.",
			InputSchema: schema(map[string]interface{}{
				"path": prop("string", "Look file to write (.yaml, .json or .toml)"),
			}, "path"),
		},

		// Output
		{
			Name:        "look_sample_color",
			Description: "Read a pixel of the proxy before and after the pipeline. Coordinates are 0-based from the top-left corner of the proxy.",
			InputSchema: schema(map[string]interface{}{
				"x": prop("integer", "X coordinate"),
				"y": prop("integer", "Y coordinate"),
			}, "x", "y"),
		},
		{
			Name:        "look_preview",
			Description: "Return the pipeline output as a base64-encoded PNG.",
			InputSchema: schema(map[string]interface{}{
				"max_size": map[string]interface{}{
					"type":        "integer",
					"description": "Optional bound on the longest side. Default 512",
					"default":     DefaultPreviewSize,
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Image to return: output or input. Default output",
					"enum":        []string{"output", "input"},
				},
			}),
		},
		{
			Name:        "look_save_output",
			Description: "Render the full resolution image through the pipeline and save it. The format follows the extension; PNG and TIFF keep 16 bits.",
			InputSchema: schema(map[string]interface{}{
				"path": prop("string", "Output image path"),
			}, "path"),
		},
		{
			Name:        "look_export_lut",
			Description: "Bake the pipeline into a 3D LUT and write it as a .cube file.",
			InputSchema: schema(map[string]interface{}{
				"path": prop("string", "Output .cube path"),
				"size": prop("integer", "Lattice points per axis. Default is the configured LUT size"),
			}, "path"),
		},
		{
			Name:        "look_stats",
			Description: "Report pipeline recompute and export counters.",
			InputSchema: schema(map[string]interface{}{}),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
