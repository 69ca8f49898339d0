package reconciler

import (
	"context"

	"github.com/google/uuid"

	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
	"github.com/agentstation/contactsync/pkg/logging"
)

// BatchStats counts what the queue submitted for one user.
type BatchStats struct {
	Batches   int `json:"batches" yaml:"batches"`
	Submitted int `json:"submitted" yaml:"submitted"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Queue accumulates mutations for one user and submits them in batches of
// at most max operations. Rejected operations are logged and collected;
// they never stop the queue.
type Queue struct {
	svc      contacts.Service
	user     string
	max      int
	req      contacts.BatchRequest
	stats    BatchStats
	failures []error
	newID    func() string
}

// NewQueue creates a queue submitting to svc on behalf of user.
func NewQueue(svc contacts.Service, user string, max int) *Queue {
	if max < 1 {
		max = 1
	}
	return &Queue{
		svc:   svc,
		user:  user,
		max:   max,
		newID: uuid.NewString,
	}
}

// Len returns the number of pending operations.
func (q *Queue) Len() int {
	return q.req.Len()
}

// Enqueue adds an operation, assigning a correlation id when it has none.
func (q *Queue) Enqueue(op contacts.Operation) {
	if op.ID == "" {
		op.ID = q.newID()
	}
	q.req.Add(op)
}

// Flush submits pending operations. Without force it does nothing until
// max operations are pending; with force it submits whatever is pending.
// It reports whether a batch was submitted.
func (q *Queue) Flush(ctx context.Context, force bool) bool {
	if q.req.Len() == 0 {
		return false
	}
	if !force && q.req.Len() < q.max {
		return false
	}

	ops := make([]contacts.Operation, q.req.Len())
	copy(ops, q.req.Operations)
	q.req.Reset()

	logger := logging.FromContext(ctx)
	q.stats.Batches++
	q.stats.Submitted += len(ops)

	results, err := q.svc.ExecuteBatch(ctx, contacts.BatchRequest{Operations: ops})
	if err != nil {
		logger.Warn().Err(err).Int("operations", len(ops)).Msg("Batch submission failed")
		for _, op := range ops {
			q.fail(ctx, op, -1, err.Error(), op.Contact.DisplayName())
		}
		return true
	}

	byID := make(map[string]contacts.Operation, len(ops))
	for _, op := range ops {
		byID[op.ID] = op
	}

	seen := make(map[string]bool, len(results))
	for _, res := range results {
		seen[res.ID] = true
		op, known := byID[res.ID]
		opType := res.Type
		if opType == "" && known {
			opType = op.Type
		}
		name := res.Contact.DisplayName()
		if name == "" && known {
			name = op.Contact.DisplayName()
		}

		if !res.OK() {
			q.fail(ctx, contacts.Operation{ID: res.ID, Type: opType}, res.Code(), res.Reason, name)
			continue
		}
		q.stats.Succeeded++
		logger.Debug().
			Str("batch_id", res.ID).
			Str("type", string(opType)).
			Str("contact", name).
			Msg("Batch operation applied")
	}

	// An operation the provider did not answer for is not known to be applied.
	for _, op := range ops {
		if !seen[op.ID] {
			q.fail(ctx, op, -1, "no result returned", op.Contact.DisplayName())
		}
	}

	return true
}

func (q *Queue) fail(ctx context.Context, op contacts.Operation, status int, reason, name string) {
	q.stats.Failed++
	itemErr := &errors.BatchItemError{
		User:      q.user,
		BatchID:   op.ID,
		Operation: string(op.Type),
		Status:    status,
		Reason:    reason,
		Name:      name,
	}
	q.failures = append(q.failures, itemErr)

	if name == "" {
		name = "name unknown"
	}
	logging.FromContext(ctx).Warn().
		Int("status", status).
		Str("reason", reason).
		Str("type", string(op.Type)).
		Str("batch_id", op.ID).
		Str("contact", name).
		Msg("Batch operation failed")
}

// Stats returns the submission counters.
func (q *Queue) Stats() BatchStats {
	return q.stats
}

// Failures returns one BatchItemError per rejected operation.
func (q *Queue) Failures() []error {
	return q.failures
}
