// Package script provides the "Script Transform" operator, which runs a
// JavaScript function over every pixel.
//
// The script must define
//
//	function transform(r, g, b) { return [r, g, b]; }
//
// and may pull in helper files with include("name.js"), which are searched
// in the script base folder and its direct subfolders. console.log writes to
// the operator log.
package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/operator"
	"github.com/ironsheep/look-tools-mcp/internal/param"
)

// Name is the operator type name.
const Name = "Script Transform"

// Parameter names.
const (
	ParamBase = "Script Base"
	ParamFile = "Script File"
)

// Extension is the script file extension.
const Extension = ".js"

// DefaultTimeout bounds one Apply call.
const DefaultTimeout = 30 * time.Second

const category = "Script"

var rgbKeys = [3]string{"0", "1", "2"}

var errNoTransform = errors.New("script does not define transform(r, g, b)")

// Kernel evaluates a JavaScript transform(r, g, b) on every sample.
type Kernel struct {
	op      *operator.Operator
	base    *param.Path
	file    *param.Path
	timeout time.Duration

	search    []string
	vm        *goja.Runtime
	transform goja.Callable
}

// New creates a Script Transform operator with no script loaded.
func New(opts ...operator.Option) (*operator.Operator, error) {
	return operator.New(&Kernel{timeout: DefaultTimeout}, opts...)
}

// Name returns the registered type name.
func (k *Kernel) Name() string { return Name }

// Label is "JS - " followed by the script name.
func (k *Kernel) Label() string {
	if k.file == nil || k.file.Value() == "" {
		return "JS"
	}
	return "JS - " + filepath.Base(k.file.Value())
}

// Description describes the operator for tool listings.
func (k *Kernel) Description() string {
	return fmt.Sprintf("Script Transform\nfile: %s\nsearch path: %s",
		k.file.Value(), strings.Join(k.search, string(os.PathListSeparator)))
}

// Bind adds the base folder and script file parameters to op.
func (k *Kernel) Bind(op *operator.Operator) error {
	k.op = op
	var err error
	if k.base, err = operator.AddParameter(op, category, param.NewPath(ParamBase, "", "Choose a folder", "", param.PathFolder)); err != nil {
		return err
	}
	filter := fmt.Sprintf("Scripts (*%s)", Extension)
	if k.file, err = operator.AddParameter(op, category, param.NewPath(ParamFile, "", "Choose a script", filter, param.PathFile)); err != nil {
		return err
	}
	return nil
}

// SetTimeout changes the bound on one Apply call.
func (k *Kernel) SetTimeout(d time.Duration) {
	k.timeout = d
}

// SearchPath returns the folders include() looks in.
func (k *Kernel) SearchPath() []string {
	return append([]string(nil), k.search...)
}

// ParameterChanged recompiles the script when the file or base changes.
func (k *Kernel) ParameterChanged(p param.Parameter) {
	log := k.op.Logger()
	switch p.Name() {
	case ParamBase:
		k.search = searchPath(k.base.Value())
		if len(k.search) == 0 && k.base.Value() != "" {
			log.Info().Str("base", k.base.Value()).Msg("script search path invalid")
		}
	case ParamFile:
		if err := k.compile(); err != nil {
			log.Warn().Err(err).Str("script", k.file.Value()).Msg("script setup failed")
		}
	}
}

// Claims reports whether path is an existing .js file.
func (k *Kernel) Claims(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// LoadPath compiles the script at path without announcing the change.
func (k *Kernel) LoadPath(path string) error {
	g := k.op.Quiet()
	defer g.Release()
	k.file.SetValue(path)
	return k.compile()
}

// SetBase sets the base folder without announcing the change.
func (k *Kernel) SetBase(folder string) {
	g := k.op.Quiet()
	defer g.Release()
	k.base.SetValue(folder)
	k.search = searchPath(folder)
}

// searchPath lists folder and its direct subfolders.
func searchPath(folder string) []string {
	if folder == "" {
		return nil
	}
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil
	}
	out := []string{folder}
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(folder, e.Name()))
		}
	}
	return out
}

// compile loads the script file into a fresh runtime. On failure the kernel
// becomes a no-op.
func (k *Kernel) compile() error {
	k.vm, k.transform = nil, nil
	path := k.file.Value()
	if path == "" {
		return nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	prog, err := goja.Compile(path, string(src), false)
	if err != nil {
		return fmt.Errorf("failed to compile script: %w", err)
	}

	vm := goja.New()
	vm.SetMaxCallStackSize(1024)
	k.setupGlobals(vm)
	if _, err := vm.RunProgram(prog); err != nil {
		return fmt.Errorf("failed to run script: %w", err)
	}
	fn, ok := goja.AssertFunction(vm.Get("transform"))
	if !ok {
		return errNoTransform
	}
	k.vm, k.transform = vm, fn
	return nil
}

func (k *Kernel) setupGlobals(vm *goja.Runtime) {
	vm.Set("require", goja.Undefined())
	vm.Set("process", goja.Undefined())

	console := vm.NewObject()
	console.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		log := k.op.Logger()
		log.Info().Str("script", k.file.Value()).Msg(strings.Join(parts, " "))
		return goja.Undefined()
	})
	vm.Set("console", console)

	vm.Set("include", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		path, err := k.resolve(name)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		src, err := os.ReadFile(path)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		v, err := vm.RunScript(path, string(src))
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return v
	})
}

// resolve finds name in the search path, then next to the script itself.
func (k *Kernel) resolve(name string) (string, error) {
	dirs := append(k.SearchPath(), filepath.Dir(k.file.Value()))
	for _, d := range dirs {
		p := filepath.Join(d, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", fmt.Errorf("include %q: not found", name)
}

// IsIdentity reports whether no script is loaded.
func (k *Kernel) IsIdentity() bool {
	return k.transform == nil
}

// Apply calls transform once per pixel, bounded by the timeout.
func (k *Kernel) Apply(img *imaging.Image) error {
	if k.transform == nil {
		return nil
	}
	if img.Channels < 3 {
		return fmt.Errorf("script needs RGB samples, got %d channels", img.Channels)
	}

	vm := k.vm
	if k.timeout > 0 {
		fired := make(chan struct{})
		timer := time.AfterFunc(k.timeout, func() {
			vm.Interrupt("script timeout exceeded")
			close(fired)
		})
		// The interrupt must be cleared after the timer can no longer fire.
		defer func() {
			if !timer.Stop() {
				<-fired
			}
			vm.ClearInterrupt()
		}()
	}

	for i := 0; i+2 < len(img.Pix); i += img.Channels {
		res, err := k.transform(goja.Undefined(),
			vm.ToValue(img.Pix[i]), vm.ToValue(img.Pix[i+1]), vm.ToValue(img.Pix[i+2]))
		if err != nil {
			return fmt.Errorf("transform failed at sample %d: %w", i/img.Channels, err)
		}
		if goja.IsUndefined(res) || goja.IsNull(res) {
			return fmt.Errorf("transform returned %s at sample %d", res, i/img.Channels)
		}
		obj := res.ToObject(vm)
		for c, key := range rgbKeys {
			v := obj.Get(key)
			if v == nil || goja.IsUndefined(v) {
				return fmt.Errorf("transform result has no element %s at sample %d", key, i/img.Channels)
			}
			img.Pix[i+c] = float32(v.ToFloat())
		}
	}
	return nil
}
