package generation

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/wbryon/wink-ai-hackathon/ai"
	"github.com/wbryon/wink-ai-hackathon/errs"
	"github.com/wbryon/wink-ai-hackathon/models"
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
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.scenes {
		if s.ScriptID == scriptID && s.DedupHash == hash {
			return true, nil
		}
	}
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
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type memFrameRepo struct {
	mu     sync.Mutex
	frames []models.Frame
}

func (m *memFrameRepo) Create(_ context.Context, frame *models.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if frame.ID == uuid.Nil {
		frame.ID = uuid.New()
	}
	m.frames = append(m.frames, *frame)
	return nil
}

func (m *memFrameRepo) Get(_ context.Context, id uuid.UUID) (*models.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.frames {
		if m.frames[i].ID == id {
			copied := m.frames[i]
			return &copied, nil
		}
	}
	return nil, errs.NotFoundf("frame %s not found", id)
}

func (m *memFrameRepo) ByScene(_ context.Context, sceneID uuid.UUID, detailLevel string) ([]models.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Frame
	for i := len(m.frames) - 1; i >= 0; i-- {
		f := m.frames[i]
		if f.SceneID == sceneID && (detailLevel == "" || f.DetailLevel == detailLevel) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memFrameRepo) Latest(_ context.Context, sceneID uuid.UUID, detailLevel string) (*models.Frame, error) {
	frames, _ := m.ByScene(context.Background(), sceneID, detailLevel)
	if len(frames) == 0 {
		return nil, errs.NotFoundf("no frames for scene %s", sceneID)
	}
	return &frames[0], nil
}

func (m *memFrameRepo) MarkBest(_ context.Context, sceneID, frameID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for i := range m.frames {
		if m.frames[i].SceneID == sceneID {
			m.frames[i].IsBest = m.frames[i].ID == frameID
			if m.frames[i].ID == frameID {
				found = true
			}
		}
	}
	if !found {
		return errs.NotFoundf("frame %s not found for scene %s", frameID, sceneID)
	}
	return nil
}

// stubPrompts returns a fixed prompt, or an error when broken.
type stubPrompts struct {
	prompt string
	err    error
	calls  int
}

func (s *stubPrompts) EnsurePrompt(_ context.Context, _ *models.Scene) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.prompt, nil
}

// stubImages records every request. failAlways makes every call fail;
// echoSeed controls whether results echo the request seed back.
type stubImages struct {
	mu         sync.Mutex
	requests   []ai.GenerateRequest
	failAlways bool
	echoSeed   bool
}

func (s *stubImages) Generate(_ context.Context, req ai.GenerateRequest) (*ai.GenerateResult, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.failAlways {
		return nil, errors.New("backend exploded")
	}
	res := &ai.GenerateResult{
		ImageURL: uuid.NewString() + ".png",
		Steps:    req.Steps,
		Cfg:      req.Cfg,
		Sampler:  "euler_a",
	}
	if s.echoSeed {
		res.Seed = req.Seed
	}
	return res, nil
}
