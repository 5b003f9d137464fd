package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wbryon/wink-ai-hackathon/errs"
	"github.com/wbryon/wink-ai-hackathon/models"
	"github.com/wbryon/wink-ai-hackathon/processing"
)

type memSceneRepo struct {
	mu     sync.Mutex
	scenes map[uuid.UUID]*models.Scene
}

func newMemSceneRepo() *memSceneRepo {
	return &memSceneRepo{scenes: map[uuid.UUID]*models.Scene{}}
}

func (m *memSceneRepo) Create(_ context.Context, scene *models.Scene) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if scene.ID == uuid.Nil {
		scene.ID = uuid.New()
	}
	copied := *scene
	m.scenes[scene.ID] = &copied
	return nil
}

func (m *memSceneRepo) Get(_ context.Context, id uuid.UUID) (*models.Scene, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.scenes[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, errs.NotFoundf("scene %s not found", id)
}

func (m *memSceneRepo) ByScript(_ context.Context, scriptID uuid.UUID) ([]models.Scene, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Scene
	for _, s := range m.scenes {
		if s.ScriptID == scriptID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSceneRepo) Save(_ context.Context, scene *models.Scene) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *scene
	m.scenes[scene.ID] = &copied
	return nil
}

func (m *memSceneRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.scenes[id]; ok {
		s.Status = status
	}
	return nil
}

func (m *memSceneRepo) ExistsExternal(_ context.Context, scriptID uuid.UUID, externalID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.scenes {
		if s.ScriptID == scriptID && s.ExternalID == externalID && externalID != "" {
			return true, nil
		}
	}
	return false, nil
}

func (m *memSceneRepo) ExistsHash(_ context.Context, scriptID uuid.UUID, hash string) (bool, error) {
	return false, nil
}

func (m *memSceneRepo) ByStatus(_ context.Context, status string, limit int) ([]models.Scene, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Scene
	for _, s := range m.scenes {
		if s.Status == status {
			out = append(out, *s)
		}
	}
	return out, nil
}

type stubLLM struct {
	response string
	fail     bool
}

func (s *stubLLM) CompleteJSON(_ context.Context, _ string, _ int) (string, error) {
	if s.fail {
		return "", errors.New("model endpoint down")
	}
	return s.response, nil
}

func (s *stubLLM) CompleteText(_ context.Context, _ string) (string, error) {
	return s.response, nil
}

func waitForStatus(t *testing.T, repo *memSceneRepo, id uuid.UUID, want string) *models.Scene {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		scene, err := repo.Get(context.Background(), id)
		if err == nil && scene.Status == want {
			return scene
		}
		time.Sleep(5 * time.Millisecond)
	}
	scene, _ := repo.Get(context.Background(), id)
	t.Fatalf("scene never reached %q, last state %+v", want, scene)
	return nil
}

func TestPoolParsesScene(t *testing.T) {
	repo := newMemSceneRepo()
	scene := &models.Scene{
		Title:       "INT. KITCHEN - NIGHT",
		Description: "ANNA stirs a pot. A knife rests on the counter.",
		Status:      models.SceneStatusPending,
	}
	if err := repo.Create(context.Background(), scene); err != nil {
		t.Fatal(err)
	}

	llm := &stubLLM{response: `{
		"scene_id": "x",
		"type": "INT",
		"location": {"raw": "INT. KITCHEN - NIGHT", "norm": "kitchen"},
		"characters": [{"name": "ANNA"}],
		"props": [{"name": "knife", "required": true}],
		"tone": ["quiet", "tense"],
		"text_excerpt": "ANNA stirs a pot."
	}`}

	queue := NewParseQueue(4)
	pool := NewScenePool(queue, processing.NewDescriber(llm, nil), repo, 2, zap.NewNop().Sugar())
	pool.Start(context.Background())
	defer func() {
		queue.Close()
		pool.Wait()
	}()

	if !queue.Submit(ParseTask{SceneID: scene.ID}) {
		t.Fatal("submit failed")
	}

	parsed := waitForStatus(t, repo, scene.ID, models.SceneStatusParsed)
	if parsed.BaseJSON == "" {
		t.Error("base document not cached")
	}
	if got := parsed.Characters(); len(got) != 1 || got[0] != "ANNA" {
		t.Errorf("characters = %v", got)
	}
	if got := parsed.Props(); len(got) != 1 || got[0] != "knife" {
		t.Errorf("props = %v", got)
	}
	if parsed.Tone != "quiet, tense" {
		t.Errorf("tone = %q", parsed.Tone)
	}
	if parsed.SemanticSummary != "ANNA stirs a pot." {
		t.Errorf("summary = %q", parsed.SemanticSummary)
	}
}

func TestPoolMarksSceneFailedAndDropsTask(t *testing.T) {
	repo := newMemSceneRepo()
	scene := &models.Scene{Description: "something", Status: models.SceneStatusPending}
	if err := repo.Create(context.Background(), scene); err != nil {
		t.Fatal(err)
	}

	queue := NewParseQueue(4)
	pool := NewScenePool(queue, processing.NewDescriber(&stubLLM{fail: true}, nil), repo, 1, zap.NewNop().Sugar())
	pool.Start(context.Background())
	defer func() {
		queue.Close()
		pool.Wait()
	}()

	queue.Submit(ParseTask{SceneID: scene.ID})
	waitForStatus(t, repo, scene.ID, models.SceneStatusFailed)

	if queue.Len() != 0 {
		t.Error("failed task must not be requeued")
	}
}
