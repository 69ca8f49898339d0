package contacts

import (
	"strconv"
	"strings"
)

// OperationType is the kind of a batched mutation.
type OperationType string

const (
	// OperationInsert creates a new contact.
	OperationInsert OperationType = "insert"
	// OperationUpdate replaces an existing contact.
	OperationUpdate OperationType = "update"
	// OperationDelete removes an existing contact.
	OperationDelete OperationType = "delete"
)

// Operation is one pending mutation, identified by a correlation id that
// the provider echoes back in the matching BatchResult.
type Operation struct {
	ID      string        `json:"id"`
	Type    OperationType `json:"type"`
	Contact Contact       `json:"contact"`
}

// BatchRequest is an ordered sequence of operations submitted together.
type BatchRequest struct {
	Operations []Operation `json:"operations"`
}

// Len returns the number of operations in the request.
func (r *BatchRequest) Len() int {
	return len(r.Operations)
}

// Add appends an operation.
func (r *BatchRequest) Add(op Operation) {
	r.Operations = append(r.Operations, op)
}

// Reset empties the request, keeping its capacity.
func (r *BatchRequest) Reset() {
	r.Operations = r.Operations[:0]
}

// BatchResult is the provider's outcome for one submitted operation.
// Status is kept as received; use Code to interpret it.
type BatchResult struct {
	ID      string        `json:"id"`
	Type    OperationType `json:"type"`
	Status  string        `json:"status"`
	Reason  string        `json:"reason,omitempty"`
	Contact *Contact      `json:"contact,omitempty"`
}

// Code returns the numeric status code, or -1 when the status is malformed.
func (r BatchResult) Code() int {
	code, err := strconv.Atoi(strings.TrimSpace(r.Status))
	if err != nil {
		return -1
	}
	return code
}

// OK reports whether the status code is in [200, 400).
func (r BatchResult) OK() bool {
	code := r.Code()
	return code >= 200 && code < 400
}

// StatusText formats a numeric status for a BatchResult.
func StatusText(code int) string {
	return strconv.Itoa(code)
}
