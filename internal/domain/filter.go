package domain

// TaskFilter represents filter criteria for a task collection.
// Nil pointer fields and an empty search string mean pass-through.
// Literal parsing ("all", status names) happens at the transport
// boundary; the engines only ever see a typed filter.
type TaskFilter struct {
	Status     *Status
	AssigneeID *int64
	Search     string
}

// IsEmpty reports whether the filter would pass every task through.
func (f TaskFilter) IsEmpty() bool {
	return f.Status == nil && f.AssigneeID == nil && f.Search == ""
}
