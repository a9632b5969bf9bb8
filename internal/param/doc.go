// Package param implements observable, named parameter cells and the ordered
// sets that group them.
//
// The variant set is closed: Bool, Path, Slider, Select, Matrix and Text.
// Every parameter exposes two channels. ValueChanged fires whenever the value
// is set, SpecChanged whenever a constraint (range, choices, filters, ...)
// changes. Values are never range checked on set; a Select accepts values
// outside its choice list.
package param
