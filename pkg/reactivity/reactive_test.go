package reactivity

import (
	"math"
	"runtime"
	"testing"
	"time"
)

func TestReactiveIdentity(t *testing.T) {
	rt := NewRuntime()
	raw := map[string]any{"a": 1}

	r1 := rt.Reactive(raw)
	r2 := rt.Reactive(raw)
	if r1 != r2 {
		t.Error("same map should yield the same wrapper")
	}

	other := rt.Reactive(map[string]any{"a": 1})
	if other == r1 {
		t.Error("different maps should yield different wrappers")
	}

	if !IsReactive(r1) || IsReactive(raw) {
		t.Error("IsReactive misclassified values")
	}
}

func TestReactiveNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil map")
		}
	}()
	NewRuntime().Reactive(nil)
}

func TestNestedMapsWrapLazily(t *testing.T) {
	rt := NewRuntime()
	inner := map[string]any{"x": 1}
	outer := rt.Reactive(map[string]any{"inner": inner})

	if n := rt.cachedWrappers(); n != 1 {
		t.Fatalf("cached wrappers = %d, want 1 before any nested read", n)
	}

	got, ok := outer.Get("inner").(*Reactive)
	if !ok {
		t.Fatalf("nested map should come back wrapped, got %T", outer.Get("inner"))
	}
	if got != rt.Reactive(inner) {
		t.Error("nested wrapper should come from the identity cache")
	}
	if got2 := outer.Get("inner"); got2 != got {
		t.Error("repeated nested reads should return the same wrapper")
	}
}

func TestNestedWritesTrigger(t *testing.T) {
	rt := NewRuntime()
	state := rt.Reactive(map[string]any{
		"user": map[string]any{"name": "ada"},
	})

	var seen []any
	rt.Effect(func() {
		user := state.Get("user").(*Reactive)
		seen = append(seen, user.Get("name"))
	})

	state.Get("user").(*Reactive).Set("name", "grace")

	if len(seen) != 2 || seen[1] != "grace" {
		t.Errorf("seen = %v, want [ada grace]", seen)
	}
}

func TestSetStoresRawForReactiveValues(t *testing.T) {
	rt := NewRuntime()
	child := rt.Reactive(map[string]any{"v": 1})
	parent := rt.Reactive(map[string]any{})

	parent.Set("child", child)
	if _, ok := parent.Raw()["child"].(map[string]any); !ok {
		t.Errorf("raw entry = %T, want the unwrapped map", parent.Raw()["child"])
	}
	if parent.Get("child") != child {
		t.Error("reading back should yield the original wrapper")
	}
}

func TestHasDeleteKeys(t *testing.T) {
	rt := NewRuntime()
	state := rt.Reactive(map[string]any{"b": 2, "a": 1})

	var hasRuns, keysRuns int
	var lastKeys []string
	rt.Effect(func() {
		_ = state.Has("c")
		hasRuns++
	})
	rt.Effect(func() {
		lastKeys = state.Keys()
		keysRuns++
	})

	if len(lastKeys) != 2 || lastKeys[0] != "a" || lastKeys[1] != "b" {
		t.Fatalf("Keys = %v, want sorted [a b]", lastKeys)
	}

	state.Set("c", 3)
	if hasRuns != 2 {
		t.Errorf("Has effect runs = %d, want 2", hasRuns)
	}
	if keysRuns != 2 || len(lastKeys) != 3 {
		t.Errorf("Keys effect runs = %d keys = %v", keysRuns, lastKeys)
	}

	// Updating an existing key leaves the key set alone
	state.Set("a", 10)
	if keysRuns != 2 {
		t.Errorf("Keys effect re-ran on value change: %d", keysRuns)
	}

	state.Delete("c")
	if hasRuns != 3 || keysRuns != 3 {
		t.Errorf("after delete: has=%d keys=%d, want 3/3", hasRuns, keysRuns)
	}

	// Deleting a missing key is a no-op
	state.Delete("zzz")
	if keysRuns != 3 {
		t.Errorf("delete of missing key triggered: %d", keysRuns)
	}
}

func TestPeekDoesNotTrack(t *testing.T) {
	rt := NewRuntime()
	state := rt.Reactive(map[string]any{"n": 1})

	runs := 0
	rt.Effect(func() {
		_ = state.Peek("n")
		runs++
	})
	state.Set("n", 2)
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if state.Dep("n") != nil {
		t.Error("Peek should not create a dep")
	}
}

func TestGetAs(t *testing.T) {
	rt := NewRuntime()
	state := rt.Reactive(map[string]any{"n": 3, "s": "x"})
	if GetAs[int](state, "n") != 3 {
		t.Error("GetAs[int] failed")
	}
	if GetAs[int](state, "s") != 0 {
		t.Error("GetAs on wrong type should return zero")
	}
	if GetAs[string](state, "missing") != "" {
		t.Error("GetAs on missing key should return zero")
	}
}

func TestWrapperCacheIsWeak(t *testing.T) {
	rt := NewRuntime()

	func() {
		for i := 0; i < 8; i++ {
			r := rt.Reactive(map[string]any{"i": i})
			_ = r.Get("i")
		}
	}()

	if rt.cachedWrappers() == 0 {
		t.Fatal("expected cached wrappers before GC")
	}

	deadline := time.Now().Add(2 * time.Second)
	for rt.cachedWrappers() > 0 && time.Now().Before(deadline) {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
	if n := rt.cachedWrappers(); n != 0 {
		t.Errorf("cached wrappers after GC = %d, want 0", n)
	}
}

func TestSameValue(t *testing.T) {
	m := map[string]any{}
	s := []int{1, 2}
	fn := func() {}
	type point struct{ X, Y int }
	type holder struct{ V any }
	makeClosure := func(n int) func() int { return func() int { return n } }

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal ints", 1, 1, true},
		{"different ints", 1, 2, false},
		{"no coercion", 1, "1", false},
		{"int vs int64", 1, int64(1), false},
		{"nan", math.NaN(), math.NaN(), true},
		{"nan float32", float32(math.NaN()), float32(math.NaN()), true},
		{"signed zero", 0.0, math.Copysign(0, -1), false},
		{"same zero", 0.0, 0.0, true},
		{"strings", "a", "a", true},
		{"nil nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"same map", m, m, true},
		{"different maps", map[string]any{}, map[string]any{}, false},
		{"same slice", s, s, true},
		{"resliced", s, s[:1], false},
		{"same func", fn, fn, true},
		{"distinct closures", makeClosure(1), makeClosure(1), false},
		{"structs", point{1, 2}, point{1, 2}, true},
		{"structs differ", point{1, 2}, point{2, 1}, false},
		{"struct with slice field", holder{[]int{1}}, holder{[]int{1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameValue(tt.a, tt.b); got != tt.want {
				t.Errorf("SameValue(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if HasChanged(tt.a, tt.b) == tt.want {
				t.Errorf("HasChanged disagrees with SameValue")
			}
		})
	}
}
