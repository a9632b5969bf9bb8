// Package lut models 1D and 3D color lookup tables and reads and writes them
// in the .cube and .spi1d text formats.
//
// 3D tables store their nodes in red-fastest order, node (r, g, b) at index
// r + g*n + b*n*n, which is both the .cube file order and the order produced
// by imaging.Lattice. A processed lattice image can therefore be turned into
// a table by reading its first n^3 pixels.
package lut
