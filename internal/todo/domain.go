package todo

import "time"

// Todo represents a to-do item owned by exactly one user.
type Todo struct {
	ID        int64
	UserID    int64
	Title     string
	Category  string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Patch carries the mutable fields of an update. Nil fields are left
// unchanged.
type Patch struct {
	Title    *string
	Category *string
	Done     *bool
}
