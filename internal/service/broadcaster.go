package service

// Broadcaster pushes live events to a user's websocket connections (avoids import cycle)
type Broadcaster interface {
	BroadcastToUser(userID string, msgType string, payload interface{})
}

// Event types sent over the websocket
const (
	EventProgressUpdate  = "progress_update"
	EventStageCompleted  = "stage_completed"
	EventAssessmentReset = "assessment_reset"
)
