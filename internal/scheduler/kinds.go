package scheduler

import "github.com/tmajors/daykeeper/internal/models"

// kindInfo carries the per-kind wording used in notification text,
// resolved once here instead of branching on field names at runtime.
type kindInfo struct {
	label     string // how the kind reads in a sentence
	predicate string // verb phrase in front of the temporal field
}

var kinds = map[models.Kind]kindInfo{
	models.KindTask:  {label: "task", predicate: "due on"},
	models.KindEvent: {label: "event", predicate: "starting at"},
	models.KindGoal:  {label: "goal", predicate: "targeting"},
}
