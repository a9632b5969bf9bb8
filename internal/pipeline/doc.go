// Package pipeline folds an input image through an ordered list of
// operators and keeps the result.
//
// The output is recomputed, always from the input and always through the
// whole list, whenever the input is set, the list changes or any operator
// announces an update. Stages whose operator is an identity are skipped.
// Each recompute ends with an Updated emission carrying the new output.
//
// A Pipeline is not safe for concurrent use. Callers that share one across
// goroutines must serialize access.
//
// # LUT Export
//
// ExportLUT characterizes the operator list as a 3D table: it folds an
// imaging.Lattice through the stages and writes the nodes as a .cube file,
// red varying fastest, in the order the lattice stores them.
package pipeline
