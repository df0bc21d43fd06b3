package dto

// TextResponse is the plain reply payload the webhook returns to the
// transport. Anything richer than text is the rendering collaborator's job.
type TextResponse struct {
	Text string `json:"text"`
}
