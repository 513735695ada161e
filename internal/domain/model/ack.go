package model

// StatusSuccess is the only status value the service reports.
const StatusSuccess = "success"

// RootMessage is returned by GET /.
const RootMessage = "FastAPI CRUD API is running"

// RootStatus is the body of GET /.
type RootStatus struct {
	Message string `json:"message"`
}

// Ack acknowledges an operation that carries no payload (GET, DELETE).
// Field order is the wire order.
type Ack struct {
	Operation Operation `json:"operation"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
}

// ItemAck acknowledges a write operation and echoes its payload.
// Data is always present on the wire, null when no body was sent.
type ItemAck struct {
	Operation Operation    `json:"operation"`
	Message   string       `json:"message"`
	Data      *ItemPayload `json:"data"`
	Status    string       `json:"status"`
}

// NewAck builds the acknowledgment for op.
func NewAck(op Operation) Ack {
	return Ack{Operation: op, Message: op.Message(), Status: StatusSuccess}
}

// NewItemAck builds the acknowledgment for op echoing item.
func NewItemAck(op Operation, item *ItemPayload) ItemAck {
	return ItemAck{Operation: op, Message: op.Message(), Data: item.Clone(), Status: StatusSuccess}
}
