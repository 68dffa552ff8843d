// Package service holds the tenant-scoped entity services: parent
// ownership checks, scoped queries, summary projection, and the activity
// events derived from update diffs.
package service

import "time"

// Entity type tags used in activity log rows.
const (
	EntityTask      = "task"
	EntityMaterial  = "material_usage"
	EntityTimeEntry = "time_entry"
	EntityFile      = "file_attachment"
)

// isoTime renders a timestamp in the canonical wire format.
func isoTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
