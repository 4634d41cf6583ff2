package model

// Feedback is the post-session rating submitted by the user.
// WasHelpful is a pointer so "not answered" is distinguishable from "no".
type Feedback struct {
	SessionID  string `json:"sessionId"`
	Rating     int    `json:"rating"` // 1..5
	Comment    string `json:"feedback,omitempty"`
	WasHelpful *bool  `json:"wasHelpful"`
}
