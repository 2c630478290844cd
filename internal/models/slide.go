package models

// Slide is one page of a carousel post as composed in the editor.
// Body text may contain the inline markup dialect (<b> and <mark> spans).
type Slide struct {
	Ordinal     int    `json:"ordinal"`
	Title       string `json:"title,omitempty"`
	Body        string `json:"body,omitempty"`
	ImagePrompt string `json:"imagePrompt,omitempty"`
	AccentColor string `json:"accentColor,omitempty"`
}
