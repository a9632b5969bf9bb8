package event

// Handle identifies one subscription on one channel. The zero Handle is
// invalid and is rejected by every Unsubscribe call.
type Handle struct {
	bus     *Bus
	channel int
	id      uint64
}

// Valid reports whether the handle was issued by a Subscribe call.
func (h Handle) Valid() bool {
	return h.bus != nil
}

// Muter is anything that can be muted and unmuted as a whole.
type Muter interface {
	Mute()
	Unmute()
	Muted() bool
}

// Bus is the per-owner container of channels. It hands out subscription ids
// and supports muting every channel it owns at once.
type Bus struct {
	channels []Muter
	nextID   uint64
}

// NewBus creates an empty bus. Channels are attached with NewChannel.
func NewBus() *Bus {
	return &Bus{}
}

// MuteAll mutes every channel attached to the bus.
func (b *Bus) MuteAll() {
	for _, c := range b.channels {
		c.Mute()
	}
}

// UnmuteAll unmutes every channel attached to the bus.
func (b *Bus) UnmuteAll() {
	for _, c := range b.channels {
		c.Unmute()
	}
}

// Hold mutes every channel of the bus until the returned guard is released.
func (b *Bus) Hold() *Guard {
	return Hold(b.channels...)
}

// ChannelCount returns the number of channels attached to the bus.
func (b *Bus) ChannelCount() int {
	return len(b.channels)
}

func (b *Bus) attach(c Muter) int {
	b.channels = append(b.channels, c)
	return len(b.channels) - 1
}

func (b *Bus) issue() uint64 {
	b.nextID++
	return b.nextID
}
