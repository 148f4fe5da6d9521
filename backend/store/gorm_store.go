package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Raficate/missions/backend/models"
)

// GormStore persists user documents as JSON rows through GORM.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Exists(ctx context.Context, uid string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&models.UserDocument{}).
		Where("user_id = ?", uid).
		Count(&count).Error
	if err != nil {
		return false, classify(err)
	}
	return count > 0, nil
}

func (s *GormStore) Get(ctx context.Context, uid string) (*models.UserDoc, error) {
	var row models.UserDocument
	err := s.DB.WithContext(ctx).Where("user_id = ?", uid).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}

	var doc models.UserDoc
	if err := json.Unmarshal(row.Doc, &doc); err != nil {
		return nil, fmt.Errorf("%w: corrupt document for %s: %v", ErrUnavailable, uid, err)
	}
	normalize(&doc.MissionState)
	return &doc, nil
}

func (s *GormStore) Create(ctx context.Context, uid string, doc models.UserDoc) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	row := models.UserDocument{UserID: uid, Doc: datatypes.JSON(raw)}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return classify(err)
	}
	return nil
}

func (s *GormStore) UpdateState(ctx context.Context, uid string, state models.MissionState) error {
	return s.patch(ctx, uid, func(doc *models.UserDoc) {
		doc.MissionState = state
	})
}

func (s *GormStore) UpdateProfile(ctx context.Context, uid string, profile models.UserProfile) error {
	return s.patch(ctx, uid, func(doc *models.UserDoc) {
		doc.UserProfile = profile
	})
}

// patch is a whole-document read-modify-write. Last write wins; two
// concurrent sessions of the same user may clobber each other, which the
// design accepts.
func (s *GormStore) patch(ctx context.Context, uid string, apply func(*models.UserDoc)) error {
	var row models.UserDocument
	err := s.DB.WithContext(ctx).Where("user_id = ?", uid).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: no document for %s", ErrUnavailable, uid)
	}
	if err != nil {
		return classify(err)
	}

	var doc models.UserDoc
	if err := json.Unmarshal(row.Doc, &doc); err != nil {
		return fmt.Errorf("%w: corrupt document for %s: %v", ErrUnavailable, uid, err)
	}
	apply(&doc)

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	err = s.DB.WithContext(ctx).
		Model(&models.UserDocument{}).
		Where("user_id = ?", uid).
		Update("doc", datatypes.JSON(raw)).Error
	if err != nil {
		return classify(err)
	}
	return nil
}

// classify maps driver errors onto the store taxonomy. Postgres 42501 is
// insufficient_privilege.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42501" {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// normalize repairs zero values left by older documents so callers never
// see nil sets.
func normalize(state *models.MissionState) {
	if state.SeenMissionIDs == nil {
		state.SeenMissionIDs = []string{}
	}
	if state.CompletedMissionIDs == nil {
		state.CompletedMissionIDs = []string{}
	}
	if state.Completed == nil {
		state.Completed = map[string]models.CompletionRecord{}
	}
}
