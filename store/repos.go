// Package store holds the persistence layer. Each repository wraps the
// shared gorm handle and maps gorm.ErrRecordNotFound onto the service
// error taxonomy so handlers never touch gorm errors directly.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wbryon/wink-ai-hackathon/errs"
	"github.com/wbryon/wink-ai-hackathon/models"
)

type ScriptRepo interface {
	Create(ctx context.Context, script *models.Script) error
	Get(ctx context.Context, id uuid.UUID) (*models.Script, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SetText(ctx context.Context, id uuid.UUID, text string) error
}

type SceneRepo interface {
	Create(ctx context.Context, scene *models.Scene) error
	Get(ctx context.Context, id uuid.UUID) (*models.Scene, error)
	ByScript(ctx context.Context, scriptID uuid.UUID) ([]models.Scene, error)
	Save(ctx context.Context, scene *models.Scene) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ExistsExternal(ctx context.Context, scriptID uuid.UUID, externalID string) (bool, error)
	ExistsHash(ctx context.Context, scriptID uuid.UUID, hash string) (bool, error)
	ByStatus(ctx context.Context, status string, limit int) ([]models.Scene, error)
}

type VisualRepo interface {
	Get(ctx context.Context, sceneID uuid.UUID) (*models.SceneVisual, error)
	Upsert(ctx context.Context, visual *models.SceneVisual) error
}

type FrameRepo interface {
	Create(ctx context.Context, frame *models.Frame) error
	Get(ctx context.Context, id uuid.UUID) (*models.Frame, error)
	ByScene(ctx context.Context, sceneID uuid.UUID, detailLevel string) ([]models.Frame, error)
	Latest(ctx context.Context, sceneID uuid.UUID, detailLevel string) (*models.Frame, error)
	MarkBest(ctx context.Context, sceneID, frameID uuid.UUID) error
}

type scriptRepo struct{ db *gorm.DB }

func NewScriptRepo(db *gorm.DB) ScriptRepo { return &scriptRepo{db: db} }

func (r *scriptRepo) Create(ctx context.Context, script *models.Script) error {
	return r.db.WithContext(ctx).Create(script).Error
}

func (r *scriptRepo) Get(ctx context.Context, id uuid.UUID) (*models.Script, error) {
	var script models.Script
	err := r.db.WithContext(ctx).First(&script, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundf("script %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &script, nil
}

func (r *scriptRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&models.Script{}).
		Where("id = ?", id).Update("status", status).Error
}

func (r *scriptRepo) SetText(ctx context.Context, id uuid.UUID, text string) error {
	return r.db.WithContext(ctx).Model(&models.Script{}).
		Where("id = ?", id).Update("text_extracted", text).Error
}

type sceneRepo struct{ db *gorm.DB }

func NewSceneRepo(db *gorm.DB) SceneRepo { return &sceneRepo{db: db} }

func (r *sceneRepo) Create(ctx context.Context, scene *models.Scene) error {
	return r.db.WithContext(ctx).Create(scene).Error
}

func (r *sceneRepo) Get(ctx context.Context, id uuid.UUID) (*models.Scene, error) {
	var scene models.Scene
	err := r.db.WithContext(ctx).First(&scene, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundf("scene %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &scene, nil
}

func (r *sceneRepo) ByScript(ctx context.Context, scriptID uuid.UUID) ([]models.Scene, error) {
	var scenes []models.Scene
	err := r.db.WithContext(ctx).
		Where("script_id = ?", scriptID).
		Order("created_at ASC").
		Find(&scenes).Error
	return scenes, err
}

func (r *sceneRepo) Save(ctx context.Context, scene *models.Scene) error {
	return r.db.WithContext(ctx).Save(scene).Error
}

func (r *sceneRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&models.Scene{}).
		Where("id = ?", id).Update("status", status).Error
}

func (r *sceneRepo) ExistsExternal(ctx context.Context, scriptID uuid.UUID, externalID string) (bool, error) {
	if externalID == "" {
		return false, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Scene{}).
		Where("script_id = ? AND external_id = ?", scriptID, externalID).
		Count(&n).Error
	return n > 0, err
}

func (r *sceneRepo) ExistsHash(ctx context.Context, scriptID uuid.UUID, hash string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Scene{}).
		Where("script_id = ? AND dedup_hash = ?", scriptID, hash).
		Count(&n).Error
	return n > 0, err
}

func (r *sceneRepo) ByStatus(ctx context.Context, status string, limit int) ([]models.Scene, error) {
	var scenes []models.Scene
	q := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&scenes).Error
	return scenes, err
}

type visualRepo struct{ db *gorm.DB }

func NewVisualRepo(db *gorm.DB) VisualRepo { return &visualRepo{db: db} }

func (r *visualRepo) Get(ctx context.Context, sceneID uuid.UUID) (*models.SceneVisual, error) {
	var visual models.SceneVisual
	err := r.db.WithContext(ctx).First(&visual, "scene_id = ?", sceneID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundf("visual for scene %s not found", sceneID)
	}
	if err != nil {
		return nil, err
	}
	return &visual, nil
}

func (r *visualRepo) Upsert(ctx context.Context, visual *models.SceneVisual) error {
	var existing models.SceneVisual
	err := r.db.WithContext(ctx).First(&existing, "scene_id = ?", visual.SceneID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(visual).Error
	}
	if err != nil {
		return err
	}
	visual.ID = existing.ID
	return r.db.WithContext(ctx).Save(visual).Error
}

type frameRepo struct{ db *gorm.DB }

func NewFrameRepo(db *gorm.DB) FrameRepo { return &frameRepo{db: db} }

func (r *frameRepo) Create(ctx context.Context, frame *models.Frame) error {
	return r.db.WithContext(ctx).Create(frame).Error
}

func (r *frameRepo) Get(ctx context.Context, id uuid.UUID) (*models.Frame, error) {
	var frame models.Frame
	err := r.db.WithContext(ctx).First(&frame, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundf("frame %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &frame, nil
}

func (r *frameRepo) ByScene(ctx context.Context, sceneID uuid.UUID, detailLevel string) ([]models.Frame, error) {
	var frames []models.Frame
	q := r.db.WithContext(ctx).Where("scene_id = ?", sceneID)
	if detailLevel != "" {
		q = q.Where("detail_level = ?", detailLevel)
	}
	err := q.Order("created_at DESC").Find(&frames).Error
	return frames, err
}

func (r *frameRepo) Latest(ctx context.Context, sceneID uuid.UUID, detailLevel string) (*models.Frame, error) {
	var frame models.Frame
	q := r.db.WithContext(ctx).Where("scene_id = ?", sceneID)
	if detailLevel != "" {
		q = q.Where("detail_level = ?", detailLevel)
	}
	err := q.Order("created_at DESC").First(&frame).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundf("no frames for scene %s", sceneID)
	}
	if err != nil {
		return nil, err
	}
	return &frame, nil
}

func (r *frameRepo) MarkBest(ctx context.Context, sceneID, frameID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Frame{}).
			Where("scene_id = ?", sceneID).
			Update("is_best", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Frame{}).
			Where("id = ? AND scene_id = ?", frameID, sceneID).
			Update("is_best", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NotFoundf("frame %s not found for scene %s", frameID, sceneID)
		}
		return nil
	})
}
