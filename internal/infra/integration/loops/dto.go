package loops

import "encoding/json"

// ContactResponse is what the contacts API answered on the last attempt.
type ContactResponse struct {
	StatusCode int
	Body       []byte
	Attempts   int
}

func (r *ContactResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Message returns the "message" field of an error body, if there is one.
func (r *ContactResponse) Message() string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(r.Body, &body); err != nil {
		return ""
	}
	return body.Message
}
