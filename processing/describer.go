package processing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects a JSON schema for a document type so the
// prompt can pin the model to the exact shape we decode into.
func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var (
	baseSceneSchema     = GenerateSchema[BaseScene]()
	enrichedSceneSchema = GenerateSchema[EnrichedScene]()
)

func schemaText(schema interface{}) string {
	b, err := json.Marshal(schema)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Describer turns raw scene text into a base structured document.
type Describer struct {
	llm     Completer
	audit   *Audit
	budgets []int
}

func NewDescriber(llm Completer, audit *Audit) *Describer {
	return &Describer{llm: llm, audit: audit, budgets: DefaultBudgets}
}

// SceneInput is the raw material for a base document.
type SceneInput struct {
	SceneID     string
	Title       string
	Location    string
	Description string
	Tone        string
	Style       string
	Characters  []string
	Props       []string
}

// Describe produces the base document for one scene. The output of
// every attempt lands in the audit log under the scene id.
func (d *Describer) Describe(ctx context.Context, in SceneInput) (BaseScene, error) {
	prompt := fmt.Sprintf(`You are a screenplay analyst. Extract a structured description of the scene below.

Scene title: %s
Location: %s
Tone: %s
Style: %s
Characters: %s
Props: %s

Scene text:
%s

Respond with a single JSON object matching this schema, nothing else:
%s

Rules:
- Normalize the location and time of day into "norm" fields (lowercase, short).
- "type" is INT or EXT.
- Keep "text_excerpt" under 300 characters, quoting the most visual passage.
- Do not invent characters or props that are not in the scene.`,
		in.Title, in.Location, in.Tone, in.Style,
		joinList(in.Characters), joinList(in.Props),
		in.Description, schemaText(baseSceneSchema))

	var doc BaseScene
	if err := completeJSON(ctx, d.llm, "describe", prompt, d.budgets, d.audit, in.SceneID, &doc); err != nil {
		return BaseScene{}, err
	}
	if doc.SceneID == "" {
		doc.SceneID = in.SceneID
	}
	return doc, nil
}
