package response

// ErrorBody is the body of every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

// Created is returned when an order is recorded.
type Created struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

type Message struct {
	Message string `json:"message"`
}

// Error returns a standard error response wrapping the error message
func Error(err string) ErrorBody {
	return ErrorBody{Error: err}
}

func NewCreated(id uint, message string) Created {
	return Created{ID: id, Message: message}
}

func NewMessage(message string) Message {
	return Message{Message: message}
}
