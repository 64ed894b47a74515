package api

// Operation names used for error normalization.
const (
	OpUpload = "upload"
	OpList   = "list"
	OpDelete = "delete"
	OpChat   = "chat"
	OpHealth = "health"
)

// fallbackMessages are the per-operation messages used when the backend
// supplies no detail of its own.
var fallbackMessages = map[string]string{
	OpUpload: "Failed to upload document. Please try again.",
	OpList:   "Unable to load documents from the server.",
	OpDelete: "Failed to delete document. Please try again.",
	OpChat:   "Failed to get a response. Please check your connection and try again.",
	OpHealth: "Server health check failed.",
}

// RequestError is the single normalized failure shape for every remote
// operation. Callers see only Message; network, HTTP-status, and decode
// distinctions are preserved in Err for logging.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Err }

// newRequestError builds a RequestError, falling back to the operation's
// generic message when detail is empty.
func newRequestError(op string, status int, detail string, cause error) *RequestError {
	msg := detail
	if msg == "" {
		msg = fallbackMessages[op]
	}
	if msg == "" {
		msg = "Request failed. Please try again."
	}
	return &RequestError{Op: op, StatusCode: status, Message: msg, Err: cause}
}
