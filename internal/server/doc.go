// Package server implements the MCP (Model Context Protocol) server for the look pipeline.
//
// This package provides a JSON-RPC 2.0 server that exposes the operator pipeline
// through the MCP protocol: clients load an image, build a chain of color
// operators, tune their parameters, and export the result as an image or a
// 3D LUT.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// After a call that recomputed the pipeline, the server also writes a
// notifications/message notification with the pipeline name, stage count and
// output size.
//
// # Available Tools
//
// Input:
//   - look_load_image: Load the pipeline input
//
// Operator catalog:
//   - look_list_operators: Registered operator types and their parameters
//
// Pipeline editing:
//   - look_add_operator: Add an operator by type or from a file
//   - look_replace_operator: Swap the operator at an index
//   - look_delete_operator: Remove the operator at an index
//   - look_reset: Remove every operator
//   - look_list_stages: Operators in order with parameter values
//   - look_set_parameter: Change one parameter
//
// Looks:
//   - look_load_look: Replace the operators with a look file
//   - look_save_look: Write the operators to a look file
//
// Output:
//   - look_sample_color: Pixel before and after the pipeline
//   - look_preview: Output as base64 PNG
//   - look_save_output: Render the full resolution image to a file
//   - look_export_lut: Bake the pipeline into a .cube file
//   - look_stats: Recompute and export counters
//
// # State
//
// All tools share one application context (see package app). Requests are
// handled one at a time on the reading goroutine, so pipeline edits and
// recomputes never overlap.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(a, version)
//	defer srv.Close()
//	if err := srv.Run(); err != nil {
//	    return err
//	}
package server
