package event

type subscriber[T any] struct {
	id     uint64
	fn     func(T)
	active bool
}

// Channel is one named event stream of a Bus, carrying payloads of type T.
type Channel[T any] struct {
	bus   *Bus
	index int
	name  string
	subs  []*subscriber[T]
	muted bool
}

// NewChannel creates a channel named name and attaches it to b.
func NewChannel[T any](b *Bus, name string) *Channel[T] {
	c := &Channel[T]{bus: b, name: name}
	c.index = b.attach(c)
	return c
}

// Name returns the channel name.
func (c *Channel[T]) Name() string {
	return c.name
}

// Subscribe appends fn to the subscriber list and returns its handle.
func (c *Channel[T]) Subscribe(fn func(T)) Handle {
	s := &subscriber[T]{id: c.bus.issue(), fn: fn, active: true}
	c.subs = append(c.subs, s)
	return Handle{bus: c.bus, channel: c.index, id: s.id}
}

// Unsubscribe removes the subscription identified by h. It returns false when
// h was not issued by this channel or was already removed.
func (c *Channel[T]) Unsubscribe(h Handle) bool {
	if h.bus != c.bus || h.channel != c.index {
		return false
	}
	for i, s := range c.subs {
		if s.id == h.id {
			s.active = false
			// Copy instead of shifting in place: an emission in progress
			// iterates over the previous backing array.
			subs := make([]*subscriber[T], 0, len(c.subs)-1)
			subs = append(subs, c.subs[:i]...)
			subs = append(subs, c.subs[i+1:]...)
			c.subs = subs
			return true
		}
	}
	return false
}

// Emit delivers v to every active subscriber, in subscription order.
func (c *Channel[T]) Emit(v T) {
	if c.muted {
		return
	}
	subs := c.subs
	for _, s := range subs {
		if !s.active {
			continue
		}
		s.fn(v)
	}
}

// Len returns the number of current subscribers.
func (c *Channel[T]) Len() int {
	return len(c.subs)
}

// Mute drops all emissions until Unmute is called.
func (c *Channel[T]) Mute() {
	c.muted = true
}

// Unmute restores delivery.
func (c *Channel[T]) Unmute() {
	c.muted = false
}

// Muted reports whether the channel currently drops emissions.
func (c *Channel[T]) Muted() bool {
	return c.muted
}
