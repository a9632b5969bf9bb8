package event

// Guard keeps a set of channels muted until Release is called. It remembers
// the mute state of each target so that releasing an inner guard never
// unmutes a channel held by an outer one.
type Guard struct {
	targets  []Muter
	previous []bool
	released bool
}

// Hold mutes every target and returns the guard that restores them.
func Hold(targets ...Muter) *Guard {
	g := &Guard{
		targets:  targets,
		previous: make([]bool, len(targets)),
	}
	for i, t := range targets {
		g.previous[i] = t.Muted()
		t.Mute()
	}
	return g
}

// Release restores the mute state captured by Hold. Calling it more than
// once is harmless.
func (g *Guard) Release() {
	if g.released {
		return
	}
	g.released = true
	for i := len(g.targets) - 1; i >= 0; i-- {
		if !g.previous[i] {
			g.targets[i].Unmute()
		}
	}
}
