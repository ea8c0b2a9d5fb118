package server

import (
	"github.com/zeusync/gesturecast/internal/core/caster"
	"github.com/zeusync/gesturecast/internal/core/vecmath"
)

type MessageType string

// Client to server.
const (
	MessageBegin   MessageType = "begin"
	MessagePose    MessageType = "pose"
	MessageTick    MessageType = "tick"
	MessageEnd     MessageType = "end"
	MessageAbandon MessageType = "abandon"
)

// Server to client.
const (
	MessageStarted   MessageType = "started"
	MessageResult    MessageType = "result"
	MessageAbandoned MessageType = "abandoned"
	MessageDisposed  MessageType = "disposed"
	MessageError     MessageType = "error"
)

// ClientMessage drives one drawing hand. Position and Forward are world
// coordinates: +X right, +Y up, +Z forward.
type ClientMessage struct {
	Type     MessageType `json:"type"`
	Hand     string      `json:"hand,omitempty"`
	Position *[3]float64 `json:"position,omitempty"`
	Forward  *[3]float64 `json:"forward,omitempty"`
	DT       float64     `json:"dt,omitempty"`
}

// ServerMessage answers a client. Class, Spell and Success are set on the
// messages that carry them, zero values included.
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Hand      string      `json:"hand,omitempty"`
	ID        string      `json:"id,omitempty"`
	Class     *int        `json:"class,omitempty"`
	ClassName string      `json:"class_name,omitempty"`
	Spell     *int        `json:"spell,omitempty"`
	SpellName string      `json:"spell_name,omitempty"`
	Success   *bool       `json:"success,omitempty"`
	Scores    []float32   `json:"scores,omitempty"`
	Error     string      `json:"error,omitempty"`
}

func resultMessage(out caster.Outcome) ServerMessage {
	return ServerMessage{
		Type:      MessageResult,
		Hand:      string(out.Hand),
		ID:        out.ID.String(),
		Class:     &out.Result.Class,
		ClassName: out.Result.ClassName,
		Spell:     &out.Result.Spell,
		SpellName: out.Result.SpellName,
		Success:   &out.Success,
		Scores:    out.Result.Scores,
	}
}

func errorMessage(hand string, err error) ServerMessage {
	return ServerMessage{Type: MessageError, Hand: hand, Error: err.Error()}
}

// remotePointer is the last pose a client sent for a hand.
type remotePointer struct {
	position vecmath.Vec3
	forward  vecmath.Vec3
}

func (p *remotePointer) Position() vecmath.Vec3 { return p.position }
func (p *remotePointer) Forward() vecmath.Vec3  { return p.forward }

func (p *remotePointer) update(msg ClientMessage) {
	if msg.Position != nil {
		p.position = vecmath.V3(msg.Position[0], msg.Position[1], msg.Position[2])
	}
	if msg.Forward != nil {
		p.forward = vecmath.V3(msg.Forward[0], msg.Forward[1], msg.Forward[2])
	}
}
