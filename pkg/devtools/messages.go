package devtools

import (
	"time"

	"github.com/vango-dev/vmini/pkg/host"
)

// MessageType is the type of a stream message.
type MessageType string

const (
	MessageHello MessageType = "hello"
	MessageOp    MessageType = "op"
)

// OpEvent is a host op as sent to inspectors.
type OpEvent struct {
	Seq  uint64      `json:"seq"`
	Kind host.OpKind `json:"kind"`
	Node uint64      `json:"node,omitempty"`
	Tag  string      `json:"tag,omitempty"`
	Text string      `json:"text,omitempty"`
	Key  string      `json:"key,omitempty"`
	Move bool        `json:"move,omitempty"`
	At   time.Time   `json:"at"`
}

// Message is sent to inspectors over the WebSocket.
type Message struct {
	Type   MessageType `json:"type"`
	Client string      `json:"client,omitempty"`
	Op     *OpEvent    `json:"op,omitempty"`
	Recent []OpEvent   `json:"recent,omitempty"`
}

func newOpEvent(seq uint64, op host.Op) OpEvent {
	ev := OpEvent{
		Seq:  seq,
		Kind: op.Kind,
		Tag:  op.Tag,
		Text: op.Text,
		Key:  op.Key,
		Move: op.Move,
		At:   time.Now(),
	}
	if n, ok := op.Node.(*host.Node); ok && n != nil {
		ev.Node = n.ID
	}
	return ev
}
