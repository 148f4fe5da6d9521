package store

import (
	"context"
	"errors"

	"github.com/Raficate/missions/backend/models"
)

var (
	// ErrUnavailable covers transient read/write failures. The caller may
	// retry the whole operation; the store itself never does.
	ErrUnavailable = errors.New("document store unavailable")

	// ErrPermissionDenied is surfaced verbatim when the backing store
	// rejects the operation under its access policy.
	ErrPermissionDenied = errors.New("document store permission denied")
)

// DocumentStore keeps one UserDoc per user identifier, last-write-wins,
// no transactions. UpdateState and UpdateProfile are field-scoped partial
// writes: each replaces its part of the document and leaves the rest.
type DocumentStore interface {
	Exists(ctx context.Context, uid string) (bool, error)
	// Get returns (nil, nil) when no document exists for uid.
	Get(ctx context.Context, uid string) (*models.UserDoc, error)
	Create(ctx context.Context, uid string, doc models.UserDoc) error
	UpdateState(ctx context.Context, uid string, state models.MissionState) error
	UpdateProfile(ctx context.Context, uid string, profile models.UserProfile) error
}
