package entity

import "time"

// Task is a to-do item exclusively owned by one Identity.
type Task struct {
	ID        int64
	Text      string
	Done      bool
	CreatedAt time.Time
	Owner     string
}

// OwnedBy reports whether the task belongs to the identity with the given id.
func (t *Task) OwnedBy(identityID string) bool {
	return identityID != "" && t.Owner == identityID
}

// TaskPatch carries the optional fields of a task update.
type TaskPatch struct {
	Text *string
	Done *bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Text == nil && p.Done == nil
}

// Apply copies the present fields onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
}
