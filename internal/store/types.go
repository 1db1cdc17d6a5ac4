package store

// ProgressMergeCol names the optional snapshot columns a progress report may
// carry. The upsert merges only the columns the report actually supplied,
// leaving the rest of an existing snapshot untouched.
const (
	ColNotes               = "notes"
	ColPhotos              = "photos"
	ColEstimatedCompletion = "estimated_completion"
	ColLocationLat         = "location_lat"
	ColLocationLng         = "location_lng"
	ColLocationUpdatedAt   = "location_updated_at"
)

// baseProgressCols are always overwritten by an upsert.
var baseProgressCols = []string{
	"staff_id",
	"current_stage",
	"progress_percentage",
	"delay_risk",
	"last_update",
}
