package types

// RequestSend is the body of POST /send.
type RequestSend struct {
	Number  string `json:"number"`
	Message string `json:"message"`
}
