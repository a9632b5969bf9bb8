// Package settings persists parameter values between runs.
//
// A FileStore is a flat key/value file in TOML, YAML or JSON, chosen by the
// file extension. Settings wraps a param.Set whose parameters load their
// value from the store when added and write it back on every change.
//
// The application settings are:
//
//   - Default Script Folder: base folder for script operator includes
//   - Default Color Space Config: configuration used by new Color Space operators
//   - Default Image: image loaded at startup
//   - Image Base Folder: folder relative image paths resolve against
//   - Look Base Folder: folder relative look paths resolve against
//   - Look Tonemap LUT: LUT appended to every look when set
package settings
