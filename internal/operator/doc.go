// Package operator implements the transform stage the look pipeline folds
// images through.
//
// An Operator wraps a Kernel, the raw color transform, and owns the
// parameters that control it. Four parameters are always present:
//
//	Enabled   bool    true     false makes the stage an identity
//	Opacity   0-100   100      cross-dissolve with the stage input
//	Contrast  0-100   100      strength of the tone-curve component
//	Color     0-100   100      strength of the chromatic component
//
// # Isolation
//
// When Contrast or Color is below 100 the stage splits the kernel into a
// per-channel tone curve, measured by running the kernel on a neutral ramp,
// and the remaining chromatic part. The curve is applied alone for the
// contrast-only image; its inverse followed by the kernel gives the
// color-only image. The three images are then mixed by the slider values.
// Slider boundaries are compared exactly: 99.9999 is not 100.
//
// # Events
//
// Every parameter change is announced first on ParamUpdated, where the kernel
// rebuilds its state, and then on Updated, which pipelines listen to.
// Kernels that change their own parameters while reacting should hold the
// operator muted with Quiet.
//
// # Failures
//
// A kernel error or panic during Apply is logged and the stage passes its
// input through unchanged, so one broken stage never stops a pipeline.
package operator
