package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/look-tools-mcp/internal/event"
	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/operator"
)

// ErrIndexOutOfRange is returned by structural edits at an index outside the
// operator list. The list is left unchanged.
var ErrIndexOutOfRange = errors.New("operator index out of range")

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for recompute and export messages.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithMetrics records recomputes and exports into m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

type stage struct {
	op     *operator.Operator
	handle event.Handle
}

// Pipeline owns an ordered list of operators and the output they produce
// from the current input.
type Pipeline struct {
	name    string
	log     zerolog.Logger
	metrics *Metrics

	input  *imaging.Image
	output *imaging.Image
	stages []stage

	bus      *event.Bus
	newInput *event.Channel[*imaging.Image]
	updated  *event.Channel[*imaging.Image]
}

// New creates an empty pipeline.
func New(name string, opts ...Option) *Pipeline {
	p := &Pipeline{
		name: name,
		log:  zerolog.Nop(),
		bus:  event.NewBus(),
	}
	p.newInput = event.NewChannel[*imaging.Image](p.bus, "new-input")
	p.updated = event.NewChannel[*imaging.Image](p.bus, "updated")
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string { return p.name }

// SetName renames the pipeline. Metric labels use the new name from the next
// recompute on.
func (p *Pipeline) SetName(name string) { p.name = name }

// Input returns the current input, or nil.
func (p *Pipeline) Input() *imaging.Image { return p.input }

// Output returns the result of the last recompute, or nil. It must not be
// modified.
func (p *Pipeline) Output() *imaging.Image { return p.output }

// Bus returns the bus owning NewInput and Updated.
func (p *Pipeline) Bus() *event.Bus { return p.bus }

// NewInput fires with the input image each time SetInput accepts one.
func (p *Pipeline) NewInput() *event.Channel[*imaging.Image] { return p.newInput }

// Updated fires with the output image after every recompute.
func (p *Pipeline) Updated() *event.Channel[*imaging.Image] { return p.updated }

// SetInput stores a copy of img as the input, announces it and recomputes.
// Empty images are ignored.
func (p *Pipeline) SetInput(img *imaging.Image) {
	if img.Empty() {
		return
	}
	p.input = img.Clone()
	p.output = p.input
	p.newInput.Emit(p.input)
	p.Recompute()
}

// Len returns the number of operators.
func (p *Pipeline) Len() int { return len(p.stages) }

// Operator returns the operator at index, or nil when out of range.
func (p *Pipeline) Operator(index int) *operator.Operator {
	if index < 0 || index >= len(p.stages) {
		return nil
	}
	return p.stages[index].op
}

// Operators returns the operators in order.
func (p *Pipeline) Operators() []*operator.Operator {
	out := make([]*operator.Operator, len(p.stages))
	for i, s := range p.stages {
		out[i] = s.op
	}
	return out
}

// IndexOf returns the position of op, or -1.
func (p *Pipeline) IndexOf(op *operator.Operator) int {
	for i, s := range p.stages {
		if s.op == op {
			return i
		}
	}
	return -1
}

// Add appends op and recomputes.
func (p *Pipeline) Add(op *operator.Operator) {
	p.stages = append(p.stages, p.attach(op))
	p.changed()
}

// Insert puts op at index, 0 being the front and Len the back, and
// recomputes.
func (p *Pipeline) Insert(index int, op *operator.Operator) error {
	if index < 0 || index > len(p.stages) {
		return fmt.Errorf("%w: insert at %d, have %d", ErrIndexOutOfRange, index, len(p.stages))
	}
	p.stages = append(p.stages, stage{})
	copy(p.stages[index+1:], p.stages[index:])
	p.stages[index] = p.attach(op)
	p.changed()
	return nil
}

// Replace swaps the operator at index for op and recomputes. The previous
// operator is detached and returned.
func (p *Pipeline) Replace(index int, op *operator.Operator) (*operator.Operator, error) {
	if index < 0 || index >= len(p.stages) {
		return nil, fmt.Errorf("%w: replace at %d, have %d", ErrIndexOutOfRange, index, len(p.stages))
	}
	old := p.stages[index]
	p.detach(old)
	p.stages[index] = p.attach(op)
	p.changed()
	return old.op, nil
}

// Delete removes the operator at index and recomputes.
func (p *Pipeline) Delete(index int) error {
	if index < 0 || index >= len(p.stages) {
		return fmt.Errorf("%w: delete at %d, have %d", ErrIndexOutOfRange, index, len(p.stages))
	}
	p.detach(p.stages[index])
	p.stages = append(p.stages[:index], p.stages[index+1:]...)
	p.changed()
	return nil
}

// Reset removes every operator and recomputes.
func (p *Pipeline) Reset() {
	for _, s := range p.stages {
		p.detach(s)
	}
	p.stages = nil
	p.changed()
}

// Init announces the current input and output again, for listeners that
// subscribed late.
func (p *Pipeline) Init() {
	p.newInput.Emit(p.input)
	p.updated.Emit(p.output)
}

func (p *Pipeline) attach(op *operator.Operator) stage {
	h := op.Updated().Subscribe(func(*operator.Operator) { p.Recompute() })
	return stage{op: op, handle: h}
}

func (p *Pipeline) detach(s stage) {
	s.op.Updated().Unsubscribe(s.handle)
}

func (p *Pipeline) changed() {
	p.metrics.setStages(p.name, len(p.stages))
	p.Recompute()
}

// Recompute folds the input through every non-identity operator and
// announces the new output. Without an input it does nothing.
func (p *Pipeline) Recompute() {
	if p.input == nil {
		return
	}
	start := time.Now()
	out, skipped := p.fold(p.input)
	p.output = out
	elapsed := time.Since(start)

	p.metrics.observeRecompute(p.name, elapsed.Seconds(), skipped)
	p.log.Debug().
		Str("pipeline", p.name).
		Int("stages", len(p.stages)).
		Int("skipped", skipped).
		Dur("elapsed", elapsed).
		Msg("pipeline computed")

	p.updated.Emit(p.output)
}

// ComputeImage returns img folded through the operators. img is not
// modified and the pipeline state is untouched.
func (p *Pipeline) ComputeImage(img *imaging.Image) *imaging.Image {
	out, _ := p.fold(img)
	return out
}

func (p *Pipeline) fold(img *imaging.Image) (*imaging.Image, int) {
	out := img.Clone()
	skipped := 0
	for _, s := range p.stages {
		if s.op.IsIdentity() {
			skipped++
			continue
		}
		out = s.op.Apply(out)
	}
	return out, skipped
}
