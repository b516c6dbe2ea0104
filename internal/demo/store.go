// Package demo holds the todo list used by the vmini CLI.
package demo

import (
	"fmt"
	"math/rand"

	"github.com/vango-dev/vmini/pkg/reactivity"
)

// StoreKey is the provide/inject key of the *Store.
const StoreKey = "demo.store"

// Todo is one list entry.
type Todo struct {
	ID    int
	Title string
	Done  bool
}

// Store keeps the todo list in reactive state. Every write replaces the
// items slice so readers are triggered.
type Store struct {
	state  *reactivity.Reactive
	nextID int
}

// NewStore creates a store seeded with titles.
func NewStore(rt *reactivity.Runtime, titles ...string) *Store {
	s := &Store{state: rt.Reactive(map[string]any{
		"items":  []Todo{},
		"filter": "all",
	})}
	for _, t := range titles {
		s.Add(t)
	}
	return s
}

// Items returns the items, tracked.
func (s *Store) Items() []Todo {
	return reactivity.GetAs[[]Todo](s.state, "items")
}

// Visible returns the items matching the current filter, tracked.
func (s *Store) Visible() []Todo {
	filter := reactivity.GetAs[string](s.state, "filter")
	var out []Todo
	for _, t := range s.Items() {
		switch {
		case filter == "active" && t.Done:
		case filter == "done" && !t.Done:
		default:
			out = append(out, t)
		}
	}
	return out
}

// Remaining returns the number of open items, tracked.
func (s *Store) Remaining() int {
	n := 0
	for _, t := range s.Items() {
		if !t.Done {
			n++
		}
	}
	return n
}

// Filter returns the current filter, tracked.
func (s *Store) Filter() string {
	return reactivity.GetAs[string](s.state, "filter")
}

// SetFilter sets the filter: all, active or done.
func (s *Store) SetFilter(f string) {
	s.state.Set("filter", f)
}

// Add appends a new item and returns its id.
func (s *Store) Add(title string) int {
	s.nextID++
	items := s.snapshot()
	s.state.Set("items", append(items, Todo{ID: s.nextID, Title: title}))
	return s.nextID
}

// Toggle flips the done flag of id.
func (s *Store) Toggle(id int) {
	items := s.snapshot()
	for i := range items {
		if items[i].ID == id {
			items[i].Done = !items[i].Done
			s.state.Set("items", items)
			return
		}
	}
}

// Remove deletes id.
func (s *Store) Remove(id int) {
	items := s.snapshot()
	for i := range items {
		if items[i].ID == id {
			s.state.Set("items", append(items[:i], items[i+1:]...))
			return
		}
	}
}

// Reverse reverses the order of the items.
func (s *Store) Reverse() {
	items := s.snapshot()
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	s.state.Set("items", items)
}

// Shuffle reorders the items randomly.
func (s *Store) Shuffle(rng *rand.Rand) {
	items := s.snapshot()
	rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	s.state.Set("items", items)
}

// Churn applies one random write: add, toggle, remove or shuffle.
func (s *Store) Churn(rng *rand.Rand) string {
	items := s.snapshot()
	switch op := rng.Intn(4); {
	case op == 0 || len(items) == 0:
		id := s.Add(fmt.Sprintf("task %d", s.nextID+1))
		return fmt.Sprintf("add %d", id)
	case op == 1:
		id := items[rng.Intn(len(items))].ID
		s.Toggle(id)
		return fmt.Sprintf("toggle %d", id)
	case op == 2 && len(items) > 2:
		id := items[rng.Intn(len(items))].ID
		s.Remove(id)
		return fmt.Sprintf("remove %d", id)
	default:
		s.Shuffle(rng)
		return "shuffle"
	}
}

// snapshot returns an untracked copy of the items.
func (s *Store) snapshot() []Todo {
	items, _ := s.state.Peek("items").([]Todo)
	out := make([]Todo, len(items))
	copy(out, items)
	return out
}
