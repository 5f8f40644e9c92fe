// Package imagesession is a client-side orchestration layer for multimodal
// image generation services. It maintains multi-turn conversational sessions
// so that each refinement prompt is evaluated with full awareness of prior
// prompts and prior generated images, and it deterministically extracts
// binary image payloads from the heterogeneous responses such services
// return.
//
// The remote service is reached through the Generator interface; see
// provider/gemini for an implementation backed by the official Go SDK.
package imagesession

// Role attributes a conversation turn to one side of the exchange.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// PartKind discriminates the variants of a Part.
type PartKind int

const (
	// PartKindUnknown marks a part that carries neither text nor inline
	// data. Consumers must skip such parts, not fail on them.
	PartKindUnknown PartKind = iota
	PartKindText
	PartKindInline
)

// Blob holds an inline binary payload and its MIME type.
type Blob struct {
	MIMEType string
	Data     []byte
}

// Part is the smallest content unit within a turn or candidate. Exactly one
// of Text or Inline is populated; use Kind to branch. A Part with neither
// set is valid but carries nothing.
type Part struct {
	Text   string
	Inline *Blob
}

// TextPart returns a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// InlinePart returns an inline binary part.
func InlinePart(mimeType string, data []byte) Part {
	return Part{Inline: &Blob{MIMEType: mimeType, Data: data}}
}

// Kind reports which variant this part carries.
func (p Part) Kind() PartKind {
	switch {
	case p.Inline != nil:
		return PartKindInline
	case p.Text != "":
		return PartKindText
	default:
		return PartKindUnknown
	}
}

// Turn is one exchange unit in a conversation. Turns are immutable once
// appended to a session's history.
type Turn struct {
	Role  Role
	Parts []Part
}

// UserTurn builds a user turn from a prompt and optional reference images.
// Images precede the prompt text, matching the part order the generation
// service expects for editing instructions.
func UserTurn(prompt string, images ...InputImage) Turn {
	parts := make([]Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, InlinePart(img.MIMEType, img.Data))
	}
	if prompt != "" {
		parts = append(parts, TextPart(prompt))
	}
	return Turn{Role: RoleUser, Parts: parts}
}

// Candidate is one alternative completion returned by the service for a
// single request.
type Candidate struct {
	Parts []Part
}

// Response is the complete result of one generation request: zero or more
// candidates, each an ordered sequence of parts. A response with no
// candidates is a valid degenerate outcome.
type Response struct {
	Candidates []Candidate

	// Usage carries token accounting when the service reports it.
	Usage *UsageMetadata
}

// UsageMetadata contains usage information for billing and monitoring.
type UsageMetadata struct {
	PromptTokens     int
	CandidatesTokens int
	TotalTokens      int
}

// InputImage represents an image supplied by the caller, for editing
// operations or as a reference inside a session turn.
type InputImage struct {
	// Data is the raw image bytes
	Data []byte

	// MIMEType of the image (e.g., "image/jpeg", "image/png")
	MIMEType string

	// URI is an optional URI reference (for cloud-stored images)
	URI string
}
