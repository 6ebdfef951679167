package magent

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// --- Enums ---

// Role identifies the sender of a message.
type Role string

const (
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleSystem Role = "system"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleSystem:
		return true
	}
	return false
}

// Part kind discriminators used on the wire.
const (
	KindText = "text"
	KindData = "data"
	KindFile = "file"
)

// --- Parts ---

// PartContent is the closed set of payload variants a Part can carry.
type PartContent interface {
	kind() string
}

// TextPart carries plain text.
type TextPart struct {
	Text string `json:"text"`
}

func (TextPart) kind() string { return KindText }

// DataPart carries arbitrary structured data.
type DataPart struct {
	Data map[string]any `json:"data"`
}

func (DataPart) kind() string { return KindData }

// FilePart carries a file reference, either by URI or inline content.
type FilePart struct {
	File FileRef `json:"file"`
}

func (FilePart) kind() string { return KindFile }

// FileRef describes a file by URI or by base64 content. Exactly one of
// URI and Bytes is expected to be set.
type FileRef struct {
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mime_type"`
	URI      string `json:"uri,omitempty"`
	Bytes    string `json:"bytes_content,omitempty"`
}

// Part wraps a PartContent variant. On the wire it is an envelope of the
// form {"root": {"kind": "text", "text": "..."}} with the kind field
// discriminating the variant.
type Part struct {
	Root PartContent
}

// NewTextPart creates a Part with text content.
func NewTextPart(text string) Part {
	return Part{Root: TextPart{Text: text}}
}

// NewDataPart creates a Part with structured data content.
func NewDataPart(data map[string]any) Part {
	return Part{Root: DataPart{Data: data}}
}

// partEnvelope is the wire shape under the "root" key. Pointer fields
// distinguish absent from zero-valued variant payloads.
type partEnvelope struct {
	Kind string         `json:"kind"`
	Text *string        `json:"text,omitempty"`
	Data map[string]any `json:"data,omitempty"`
	File *FileRef       `json:"file,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p Part) MarshalJSON() ([]byte, error) {
	if p.Root == nil {
		return nil, errors.New("magent: part has no content")
	}

	env := partEnvelope{Kind: p.Root.kind()}
	switch c := p.Root.(type) {
	case TextPart:
		env.Text = &c.Text
	case DataPart:
		env.Data = c.Data
	case FilePart:
		env.File = &c.File
	default:
		return nil, fmt.Errorf("magent: unsupported part content %T", p.Root)
	}

	return json.Marshal(struct {
		Root partEnvelope `json:"root"`
	}{Root: env})
}

// UnmarshalJSON implements json.Unmarshaler. Unknown kinds and missing
// envelopes are decode errors.
func (p *Part) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Root *partEnvelope `json:"root"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	if wrapper.Root == nil {
		return errors.New(`magent: part is missing the "root" object`)
	}

	env := wrapper.Root
	switch env.Kind {
	case KindText:
		if env.Text == nil {
			return errors.New(`magent: text part is missing the "text" field`)
		}
		p.Root = TextPart{Text: *env.Text}
	case KindData:
		p.Root = DataPart{Data: env.Data}
	case KindFile:
		if env.File == nil {
			return errors.New(`magent: file part is missing the "file" object`)
		}
		p.Root = FilePart{File: *env.File}
	default:
		return fmt.Errorf("magent: unknown part kind %q", env.Kind)
	}
	return nil
}

// --- Messages ---

// Message is the unit of communication between agents. It is treated as
// immutable once constructed.
type Message struct {
	MessageID string `json:"message_id"`
	ContextID string `json:"context_id,omitempty"`
	TaskID    string `json:"task_id,omitempty"`
	Role      Role   `json:"role"`
	Parts     []Part `json:"parts"`
}

// NewTextMessage creates a Message with a fresh id and a single text part.
func NewTextMessage(role Role, text string) Message {
	return Message{
		MessageID: NewID(),
		Role:      role,
		Parts:     []Part{NewTextPart(text)},
	}
}

// Text returns the text of the first text part, if any.
func (m Message) Text() (string, bool) {
	for _, p := range m.Parts {
		if tp, ok := p.Root.(TextPart); ok {
			return tp.Text, true
		}
	}
	return "", false
}

// Validate checks the structural invariants of a message: a known role,
// at least one part, and no empty parts.
func (m Message) Validate() error {
	if !m.Role.Valid() {
		return fmt.Errorf("magent: invalid role %q", m.Role)
	}
	if len(m.Parts) == 0 {
		return errors.New("magent: message has no parts")
	}
	for i, p := range m.Parts {
		if p.Root == nil {
			return fmt.Errorf("magent: part %d has no content", i)
		}
	}
	return nil
}

// NewID generates a UUID v4 string.
func NewID() string {
	return uuid.NewString()
}

// --- Agent Card ---

// AgentCard is the self-describing manifest an agent serves at the
// well-known discovery endpoint. It is immutable after startup.
type AgentCard struct {
	Name               string       `json:"name"`
	Description        string       `json:"description,omitempty"`
	URL                string       `json:"url,omitempty"`
	Provider           *Provider    `json:"provider,omitempty"`
	DefaultInputModes  []string     `json:"default_input_modes"`
	DefaultOutputModes []string     `json:"default_output_modes"`
	Capabilities       Capabilities `json:"capabilities"`
}

// Provider identifies the organization operating an agent.
type Provider struct {
	Organization string `json:"organization,omitempty"`
}

// Capabilities declares which optional protocol features the agent supports.
type Capabilities struct {
	Streaming         bool `json:"streaming"`
	PushNotifications bool `json:"push_notifications"`
}
