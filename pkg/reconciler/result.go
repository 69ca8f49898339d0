package reconciler

import (
	"fmt"
	"strings"
	"time"
)

// Mode is the kind of run.
type Mode string

const (
	// ModeReconcile mirrors resources into contacts.
	ModeReconcile Mode = "reconcile"
	// ModeUndo removes everything contactsync created.
	ModeUndo Mode = "undo"
)

// Result is the outcome of a complete run.
type Result struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Mode      Mode          `json:"mode" yaml:"mode"`
	Resources int           `json:"resources" yaml:"resources"`
	Users     []*UserResult `json:"users" yaml:"users"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// UserResult is the outcome for one target user.
type UserResult struct {
	User         string     `json:"user" yaml:"user"`
	GroupID      string     `json:"group_id,omitempty" yaml:"group_id,omitempty"`
	GroupTitle   string     `json:"group_title,omitempty" yaml:"group_title,omitempty"`
	GroupCreated bool       `json:"group_created,omitempty" yaml:"group_created,omitempty"`
	GroupDeleted bool       `json:"group_deleted,omitempty" yaml:"group_deleted,omitempty"`
	Members      int        `json:"members" yaml:"members"`
	Inserted     int        `json:"inserted" yaml:"inserted"`
	Updated      int        `json:"updated" yaml:"updated"`
	Deleted      int        `json:"deleted" yaml:"deleted"`
	Unmatched    int        `json:"unmatched" yaml:"unmatched"`
	Failed       int        `json:"failed" yaml:"failed"`
	Batch        BatchStats `json:"batch" yaml:"batch"`
	Aborted      bool       `json:"aborted,omitempty" yaml:"aborted,omitempty"`
	Errors       []error    `json:"-" yaml:"-"`
}

// Changes returns the number of mutations applied for the user.
func (u *UserResult) Changes() int {
	changes := u.Inserted + u.Updated + u.Deleted
	if u.GroupCreated {
		changes++
	}
	if u.GroupDeleted {
		changes++
	}
	return changes
}

// addError records a failure local to this user.
func (u *UserResult) addError(err error) {
	if err == nil {
		return
	}
	u.Failed++
	u.Errors = append(u.Errors, err)
}

// Totals sums the per-user counters.
type Totals struct {
	Users     int
	Inserted  int
	Updated   int
	Deleted   int
	Unmatched int
	Failed    int
	Aborted   int
}

// Totals returns the counters summed over all users.
func (r *Result) Totals() Totals {
	t := Totals{Users: len(r.Users)}
	for _, u := range r.Users {
		t.Inserted += u.Inserted
		t.Updated += u.Updated
		t.Deleted += u.Deleted
		t.Unmatched += u.Unmatched
		t.Failed += u.Failed
		if u.Aborted {
			t.Aborted++
		}
	}
	return t
}

// HasFailures reports whether any user saw a failure.
func (r *Result) HasFailures() bool {
	t := r.Totals()
	return t.Failed > 0 || t.Aborted > 0
}

// Errors returns every error recorded during the run.
func (r *Result) Errors() []error {
	var errs []error
	for _, u := range r.Users {
		errs = append(errs, u.Errors...)
	}
	return errs
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	t := r.Totals()
	parts := []string{
		fmt.Sprintf("%d inserted", t.Inserted),
		fmt.Sprintf("%d updated", t.Updated),
		fmt.Sprintf("%d deleted", t.Deleted),
	}
	if t.Unmatched > 0 {
		parts = append(parts, fmt.Sprintf("%d unmatched kept", t.Unmatched))
	}
	if t.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", t.Failed))
	}
	if t.Aborted > 0 {
		parts = append(parts, fmt.Sprintf("%d users aborted", t.Aborted))
	}
	return fmt.Sprintf("%s of %d users: %s", r.Mode, t.Users, strings.Join(parts, ", "))
}
