package model

import (
	"fmt"
	"strings"
)

// Operation names one of the nominal CRUD verbs served on /crud.
type Operation string

// Supported operations.
const (
	OperationGet    Operation = "GET"
	OperationPost   Operation = "POST"
	OperationPut    Operation = "PUT"
	OperationPatch  Operation = "PATCH"
	OperationDelete Operation = "DELETE"
)

// Operations lists every supported operation in route-table order.
var Operations = []Operation{
	OperationGet,
	OperationPost,
	OperationPut,
	OperationPatch,
	OperationDelete,
}

// ParseOperation maps an HTTP method onto an Operation.
func ParseOperation(method string) (Operation, error) {
	op := Operation(strings.ToUpper(strings.TrimSpace(method)))
	for _, known := range Operations {
		if op == known {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, method)
}

// AcceptsBody reports whether the operation reads an ItemPayload body.
func (o Operation) AcceptsBody() bool {
	switch o {
	case OperationPost, OperationPut, OperationPatch:
		return true
	default:
		return false
	}
}

// Message is the fixed acknowledgment text for the operation.
func (o Operation) Message() string {
	return string(o) + " operation performed successfully"
}

func (o Operation) String() string { return string(o) }
