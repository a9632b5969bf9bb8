// Package event provides the synchronous notification bus used by every
// stateful component of the look pipeline.
//
// A Bus belongs to exactly one owner (a parameter, an operator, a pipeline)
// and holds a fixed set of typed channels created with NewChannel. Each
// channel keeps its own ordered subscriber list and its own payload type, so
// a subscriber to a pipeline's "update" channel receives an image while a
// subscriber to a parameter's "value changed" channel receives the parameter.
//
// # Delivery
//
// Emit invokes every subscriber of the channel synchronously, on the caller's
// goroutine, in subscription order. Emitting on a channel with no subscribers
// is a no-op. Callbacks may emit again (on the same or another channel),
// subscribe, or unsubscribe themselves or others while being invoked:
//   - a subscriber removed during an emission is not invoked later in that
//     emission
//   - a subscriber added during an emission is first invoked by the next one
//
// # Muting
//
// A muted channel silently drops emissions: no callback runs and nothing is
// queued for later. Channels are muted individually (Channel.Mute), all at
// once (Bus.MuteAll) or for the extent of a scope with a Guard:
//
//	g := event.Hold(op.ParamUpdated, op.Updated)
//	defer g.Release()
//
// A Guard restores the exact mute state it found, so guards nest.
//
// # Thread Safety
//
// Buses are not safe for concurrent use. The look pipeline is single-threaded
// by contract; callers sharing an owner across goroutines must serialize
// access themselves.
package event
