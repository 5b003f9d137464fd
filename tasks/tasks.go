package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Queue names for the Redis task chain.
const (
	// QueueScriptSegment splits an uploaded script into scenes.
	QueueScriptSegment = "q_script_segment"

	// QueueSceneReparse resubmits a stuck pending scene to the parse pool.
	QueueSceneReparse = "q_scene_reparse"
)

// SegmentTaskPayload is the payload for QueueScriptSegment.
type SegmentTaskPayload struct {
	ScriptID uuid.UUID `json:"script_id"`
	FilePath string    `json:"file_path"`
}

// ReparseTaskPayload is the payload for QueueSceneReparse.
type ReparseTaskPayload struct {
	SceneID uuid.UUID `json:"scene_id"`
}

// Marshal creates a JSON payload for a task.
func Marshal(payload interface{}) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
