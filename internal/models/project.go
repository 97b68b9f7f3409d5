// internal/models/project.go
package models

// ImageFile is an immutable encoded image value. Edits always produce a new
// ImageFile appended to a project's history, never mutate one in place.
type ImageFile struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
	Name     string `json:"name"`
}

// DataURL renders the image as an embeddable data URL.
func (f ImageFile) DataURL() string {
	return "data:" + f.MimeType + ";base64," + f.Base64
}

type MessageSender string

const (
	SenderUser MessageSender = "user"
	SenderAI   MessageSender = "ai"
)

type ChatMessage struct {
	Sender MessageSender `json:"sender"`
	Text   string        `json:"text"`
	Image  *ImageFile    `json:"image,omitempty"`
}

// StudioProject is one AI-assisted design session. History is ordered
// most-recent-first: element 0 is the latest image, the last element the
// original upload. History is never empty once a project exists, and
// ChatHistory is append-only in conversation order.
type StudioProject struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	History     []ImageFile   `json:"history"`
	ChatHistory []ChatMessage `json:"chatHistory"`
	CreatedAt   int64         `json:"createdAt"` // unix milliseconds
	FinalSketch *ImageFile    `json:"finalSketch,omitempty"`
	TechPack    string        `json:"techPack,omitempty"`
}

// Latest returns the newest image in the edit history.
func (p *StudioProject) Latest() *ImageFile {
	if len(p.History) == 0 {
		return nil
	}
	return &p.History[0]
}

// Original returns the first uploaded image.
func (p *StudioProject) Original() *ImageFile {
	if len(p.History) == 0 {
		return nil
	}
	return &p.History[len(p.History)-1]
}

// Clone deep-copies the project so persistence transforms never mutate the
// copy held by the caller.
func (p *StudioProject) Clone() *StudioProject {
	clone := *p
	clone.History = append([]ImageFile(nil), p.History...)
	clone.ChatHistory = append([]ChatMessage(nil), p.ChatHistory...)
	if p.FinalSketch != nil {
		sketch := *p.FinalSketch
		clone.FinalSketch = &sketch
	}
	return &clone
}
