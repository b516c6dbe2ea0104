package demo

// Step is one scripted write.
type Step struct {
	Name string
	Run  func()
}

// Script returns the scripted session the demo command plays back.
func Script(s *Store) []Step {
	return []Step{
		{"add milk", func() { s.Add("milk") }},
		{"toggle 1", func() { s.Toggle(1) }},
		{"batch: add eggs, add tea, toggle 2", func() {
			s.Add("eggs")
			s.Add("tea")
			s.Toggle(2)
		}},
		{"reverse", s.Reverse},
		{"filter active", func() { s.SetFilter("active") }},
		{"filter all", func() { s.SetFilter("all") }},
		{"remove 2", func() { s.Remove(2) }},
	}
}
