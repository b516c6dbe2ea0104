package reactivity

// Dep is the set of effects subscribed to one (target, key) pair.
// Membership is unique. Subscription order is kept so triggers are
// deterministic, but callers should not depend on it.
type Dep struct {
	subs []*Effect

	// target keeps the owning Reactive alive while any effect holds this
	// dep, so later writes through the identity cache find the same deps.
	target *Reactive
}

// NewDep creates an empty dependency set.
func NewDep() *Dep {
	return &Dep{}
}

// Len returns the number of subscribed effects.
func (d *Dep) Len() int {
	if d == nil {
		return 0
	}
	return len(d.subs)
}

// Has reports whether e is subscribed.
func (d *Dep) Has(e *Effect) bool {
	if d == nil {
		return false
	}
	for _, s := range d.subs {
		if s == e {
			return true
		}
	}
	return false
}

// add subscribes e, returning false if it already was.
func (d *Dep) add(e *Effect) bool {
	if d.Has(e) {
		return false
	}
	d.subs = append(d.subs, e)
	return true
}

// remove unsubscribes e.
func (d *Dep) remove(e *Effect) {
	for i, s := range d.subs {
		if s == e {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

func (d *Dep) snapshot() []*Effect {
	out := make([]*Effect, len(d.subs))
	copy(out, d.subs)
	return out
}
