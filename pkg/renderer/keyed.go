package renderer

import (
	"fmt"

	"github.com/vango-dev/vmini/pkg/vdom"
)

// patchKeyedChildren reconciles two child lists.
//
// Matching nodes at the start and at the end are patched in place first.
// If only new nodes remain they are mounted; if only old nodes remain they
// are unmounted. Otherwise the middle window is matched by key (by
// position for unkeyed nodes), unmatched old nodes are unmounted, and the
// window is walked back to front mounting new nodes and moving every
// matched node that is not on the longest increasing subsequence of old
// positions.
func (r *Renderer) patchKeyedChildren(c1, c2 []*vdom.VNode, container, parentAnchor Node, parent *ComponentInstance) {
	r.checkKeys(c1, c2)

	i := 0
	l2 := len(c2)
	e1 := len(c1) - 1
	e2 := l2 - 1

	// 1. prefix
	for i <= e1 && i <= e2 {
		if !vdom.SameVNodeType(c1[i], c2[i]) {
			break
		}
		r.patch(c1[i], c2[i], container, nil, parent)
		i++
	}

	// 2. suffix
	for i <= e1 && i <= e2 {
		if !vdom.SameVNodeType(c1[e1], c2[e2]) {
			break
		}
		r.patch(c1[e1], c2[e2], container, nil, parent)
		e1--
		e2--
	}

	switch {
	// 3. only new nodes left
	case i > e1:
		if i <= e2 {
			anchor := parentAnchor
			if e2+1 < l2 {
				anchor = c2[e2+1].El
			}
			for ; i <= e2; i++ {
				r.patch(nil, c2[i], container, anchor, parent)
			}
		}

	// 4. only old nodes left
	case i > e2:
		for ; i <= e1; i++ {
			r.unmount(c1[i], true)
		}

	// 5. unresolved middle window
	default:
		r.patchMiddle(c1, c2, i, e1, e2, container, parentAnchor, parent)
	}
}

func (r *Renderer) patchMiddle(c1, c2 []*vdom.VNode, start, e1, e2 int, container, parentAnchor Node, parent *ComponentInstance) {
	s1, s2 := start, start

	// 5a. key -> new index
	keyToNewIndex := make(map[string]int)
	for j := s2; j <= e2; j++ {
		if key := c2[j].Key; key != "" {
			if _, dup := keyToNewIndex[key]; dup {
				r.warnKeys("W002", fmt.Sprintf("key %q appears more than once", key))
			}
			keyToNewIndex[key] = j
		}
	}

	// 5b. match old nodes; source[k] is the old index of new node s2+k
	toBePatched := e2 - s2 + 1
	patched := 0
	moved := false
	maxNewIndexSoFar := -1
	source := make([]int, toBePatched)
	for k := range source {
		source[k] = vdom.Unset
	}

	for j := s1; j <= e1; j++ {
		prev := c1[j]
		if patched >= toBePatched {
			r.unmount(prev, true)
			continue
		}

		newIndex := -1
		if prev.Key != "" {
			if idx, ok := keyToNewIndex[prev.Key]; ok && source[idx-s2] == vdom.Unset {
				newIndex = idx
			}
		} else if cand := s2 + (j - s1); cand <= e2 {
			// Unkeyed nodes pair up by position within the window
			next := c2[cand]
			if next.Key == "" && source[cand-s2] == vdom.Unset && vdom.SameVNodeType(prev, next) {
				newIndex = cand
			}
		}

		if newIndex < 0 {
			r.unmount(prev, true)
			continue
		}

		source[newIndex-s2] = j
		// 5c. matched positions going backwards means something moved
		if newIndex >= maxNewIndexSoFar {
			maxNewIndexSoFar = newIndex
		} else {
			moved = true
		}
		r.patch(prev, c2[newIndex], container, nil, parent)
		patched++
	}

	// 5d/5e. walk back to front: mount new nodes, move nodes off the LIS
	var seq []int
	if moved {
		seq = vdom.LIS(source)
	}
	k := len(seq) - 1
	for idx := toBePatched - 1; idx >= 0; idx-- {
		newIndex := s2 + idx
		next := c2[newIndex]
		anchor := parentAnchor
		if newIndex+1 < len(c2) {
			anchor = c2[newIndex+1].El
		}

		switch {
		case source[idx] == vdom.Unset:
			r.patch(nil, next, container, anchor, parent)
		case !moved:
			// already in order
		case k < 0 || idx != seq[k]:
			r.move(next, container, anchor)
		default:
			k--
		}
	}
}

// checkKeys warns once when a list uses keys but some siblings lack one.
func (r *Renderer) checkKeys(c1, c2 []*vdom.VNode) {
	if !r.warnMissingKeys {
		return
	}
	keyed, missing := 0, 0
	for _, list := range [][]*vdom.VNode{c1, c2} {
		for _, c := range list {
			if c.Key != "" {
				keyed++
			} else {
				missing++
			}
		}
	}
	if keyed > 0 && missing > 0 {
		r.warnKeys("W001", fmt.Sprintf("%d of %d siblings have no key", missing, keyed+missing))
	}
}
