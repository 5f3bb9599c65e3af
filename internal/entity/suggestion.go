package entity

// Suggestion is one improvement idea produced by the model, ready to be filed as an issue.
type Suggestion struct {
	Title string
	Body  string
}
