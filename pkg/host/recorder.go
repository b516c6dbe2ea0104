package host

import (
	"fmt"
	"sync"

	"github.com/vango-dev/vmini/pkg/metrics"
)

// OpKind names a recorded host call.
type OpKind string

const (
	OpCreateElement  OpKind = "createElement"
	OpCreateText     OpKind = "createText"
	OpSetText        OpKind = "setText"
	OpSetElementText OpKind = "setElementText"
	OpInsert         OpKind = "insert"
	OpRemove         OpKind = "remove"
	OpPatchProp      OpKind = "patchProp"
)

// Op is one recorded host call.
type Op struct {
	Kind OpKind `json:"kind"`

	// Node is the host node the call acted on.
	Node any `json:"-"`

	// Tag is the element tag for createElement and the text for text ops.
	Tag  string `json:"tag,omitempty"`
	Text string `json:"text,omitempty"`
	Key  string `json:"key,omitempty"`

	// Move is set on inserts of a node that was already in the tree.
	Move bool `json:"move,omitempty"`
}

// String renders the op for logs and demo output.
func (o Op) String() string {
	switch o.Kind {
	case OpCreateElement:
		return fmt.Sprintf("%s <%s>", o.Kind, o.Tag)
	case OpCreateText, OpSetText, OpSetElementText:
		return fmt.Sprintf("%s %q", o.Kind, o.Text)
	case OpPatchProp:
		return fmt.Sprintf("%s %s", o.Kind, o.Key)
	case OpInsert:
		if o.Move {
			return "move"
		}
	}
	return string(o.Kind)
}

// Recorder is an Adapter that records every mutating call before
// forwarding it.
type Recorder struct {
	inner Adapter

	mu       sync.Mutex
	ops      []Op
	attached map[any]bool
	sink     func(Op)
	metrics  *metrics.Collector
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithSink calls fn with every op as it is recorded.
func WithSink(fn func(Op)) RecorderOption {
	return func(r *Recorder) {
		r.sink = fn
	}
}

// WithMetrics counts ops by kind on c.
func WithMetrics(c *metrics.Collector) RecorderOption {
	return func(r *Recorder) {
		r.metrics = c
	}
}

// NewRecorder wraps inner.
func NewRecorder(inner Adapter, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		inner:    inner,
		attached: make(map[any]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	sink := r.sink
	r.mu.Unlock()

	r.metrics.RecordHostOp(string(op.Kind))
	if sink != nil {
		sink(op)
	}
}

// Ops returns a copy of the recorded ops.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Count returns how many ops of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Moves returns how many inserts moved an attached node.
func (r *Recorder) Moves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, op := range r.ops {
		if op.Move {
			n++
		}
	}
	return n
}

// Mounts returns how many inserts attached a new node.
func (r *Recorder) Mounts() int {
	return r.Count(OpInsert) - r.Moves()
}

// Len returns the number of recorded ops.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ops)
}

// Reset clears the recorded ops. Attachment state is kept so later
// inserts are still classified as moves correctly.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.ops = nil
	r.mu.Unlock()
}

// Inner returns the wrapped adapter.
func (r *Recorder) Inner() Adapter {
	return r.inner
}

func (r *Recorder) CreateElement(tag string) any {
	n := r.inner.CreateElement(tag)
	r.record(Op{Kind: OpCreateElement, Node: n, Tag: tag})
	return n
}

func (r *Recorder) CreateText(content string) any {
	n := r.inner.CreateText(content)
	r.record(Op{Kind: OpCreateText, Node: n, Text: content})
	return n
}

func (r *Recorder) SetText(node any, content string) {
	r.record(Op{Kind: OpSetText, Node: node, Text: content})
	r.inner.SetText(node, content)
}

func (r *Recorder) SetElementText(node any, content string) {
	r.record(Op{Kind: OpSetElementText, Node: node, Text: content})
	r.inner.SetElementText(node, content)
}

func (r *Recorder) Insert(node, container, anchor any) {
	r.mu.Lock()
	move := r.attached[node]
	r.attached[node] = true
	r.mu.Unlock()

	r.record(Op{Kind: OpInsert, Node: node, Move: move})
	r.inner.Insert(node, container, anchor)
}

func (r *Recorder) Remove(node any) {
	r.mu.Lock()
	delete(r.attached, node)
	r.mu.Unlock()

	r.record(Op{Kind: OpRemove, Node: node})
	r.inner.Remove(node)
}

func (r *Recorder) PatchProp(node any, key string, prev, next any) {
	r.record(Op{Kind: OpPatchProp, Node: node, Key: key})
	r.inner.PatchProp(node, key, prev, next)
}

// NextSibling is a query and is not recorded.
func (r *Recorder) NextSibling(node any) any {
	return r.inner.NextSibling(node)
}
