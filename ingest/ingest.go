package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wbryon/wink-ai-hackathon/errs"
	"github.com/wbryon/wink-ai-hackathon/models"
	"github.com/wbryon/wink-ai-hackathon/store"
)

// Result summarizes one ingestion batch.
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Ingestor persists externally parsed scenes. Duplicate deliveries are
// no-ops, so a parser may retry a whole batch safely.
type Ingestor struct {
	scenes store.SceneRepo
	log    *zap.SugaredLogger
}

func NewIngestor(scenes store.SceneRepo, log *zap.SugaredLogger) *Ingestor {
	return &Ingestor{scenes: scenes, log: log}
}

// Ingest writes the batch under the given script. A scene is a
// duplicate when its external id was already delivered for this script,
// or, lacking an external id, when its content hash matches an earlier
// delivery. Scenes arrive already parsed, so they enter the store in
// the parsed state, ready for generation.
func (i *Ingestor) Ingest(ctx context.Context, scriptID uuid.UUID, batch []SceneInput) (Result, error) {
	var res Result
	for _, in := range batch {
		if in.Description == "" && in.SemanticSummary == "" {
			return res, errs.InvalidRequestf("scene %q has no description or semantic summary", in.Title)
		}

		hash := ContentHash(in)
		dup, err := i.isDuplicate(ctx, scriptID, in.ExternalID, hash)
		if err != nil {
			return res, fmt.Errorf("dedup check: %w", err)
		}
		if dup {
			res.Skipped++
			i.log.Debugw("skipping duplicate scene", "script_id", scriptID, "external_id", in.ExternalID)
			continue
		}

		scene := models.Scene{
			ScriptID:        scriptID,
			ExternalID:      in.ExternalID,
			DedupHash:       hash,
			Title:           in.Title,
			Location:        in.Location,
			Description:     in.Description,
			SemanticSummary: in.SemanticSummary,
			Tone:            in.Tone,
			Style:           in.Style,
			Status:          models.SceneStatusParsed,
		}
		scene.SetCharacters(in.Characters)
		scene.SetProps(in.Props)

		if err := i.scenes.Create(ctx, &scene); err != nil {
			return res, fmt.Errorf("create scene: %w", err)
		}
		res.Created++
	}
	i.log.Infow("ingested scene batch", "script_id", scriptID, "created", res.Created, "skipped", res.Skipped)
	return res, nil
}

func (i *Ingestor) isDuplicate(ctx context.Context, scriptID uuid.UUID, externalID, hash string) (bool, error) {
	if externalID != "" {
		return i.scenes.ExistsExternal(ctx, scriptID, externalID)
	}
	return i.scenes.ExistsHash(ctx, scriptID, hash)
}
