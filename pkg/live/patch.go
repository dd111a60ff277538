package live

import (
	"github.com/pagelift-dev/pagelift/pkg/dom"
)

// Patch is the wire form of a single document mutation.
type Patch struct {
	Op    string  `json:"op"`
	NID   string  `json:"nid,omitempty"`
	Ref   string  `json:"ref,omitempty"`
	Key   string  `json:"key,omitempty"`
	Value string  `json:"value,omitempty"`
	HTML  string  `json:"html,omitempty"`
	Y     float64 `json:"y,omitempty"`
}

// Frame is a batch of patches with a send sequence number.
type Frame struct {
	Seq     uint64  `json:"seq"`
	Patches []Patch `json:"patches"`
}

// FromMutation converts a document mutation to its wire form. Inserted
// subtrees are rendered to HTML so the page can materialize them.
func FromMutation(m dom.Mutation) Patch {
	p := Patch{
		Op:    string(m.Op),
		NID:   m.NID,
		Ref:   m.RefNID,
		Key:   m.Key,
		Value: m.Value,
		Y:     m.Y,
	}
	if m.Node != nil {
		p.HTML = dom.RenderHTML(m.Node)
	}
	return p
}

// clientMessage is what the page runtime sends over the socket.
type clientMessage struct {
	Type  string `json:"type"`  // "event" or "ping"
	Event string `json:"event"` // DOM event name for type "event"
	NID   string `json:"nid"`   // Target node
	Value string `json:"value"` // Control value for input/change
}
