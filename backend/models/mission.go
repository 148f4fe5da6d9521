package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Mission is one entry of the static catalog. Immutable after load.
type Mission struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// CompletionRecord stores when a mission was marked done. The timestamp
// round-trips through JSON as RFC 3339.
type CompletionRecord struct {
	CompletedAt time.Time `json:"completedAt"`
}

// MissionState is the per-user assignment and completion history.
type MissionState struct {
	// LastAssignedDate is a "YYYY-MM-DD" day key in the configured
	// time zone, or empty when nothing was assigned yet.
	LastAssignedDate    string                      `json:"lastAssignedDate"`
	LastMissionID       string                      `json:"lastMissionId"`
	SeenMissionIDs      []string                    `json:"seenMissionIds"`
	CompletedMissionIDs []string                    `json:"completedMissionIds"`
	Completed           map[string]CompletionRecord `json:"completed"`
}

// UserProfile holds the display-only identity fields. None of them take
// part in mission selection.
type UserProfile struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

// UserDoc is the whole persisted document for one user.
type UserDoc struct {
	UserProfile
	MissionState MissionState `json:"missionState"`
}

// UserDocument is the database row carrying one UserDoc as JSON.
type UserDocument struct {
	gorm.Model
	UserID string         `gorm:"uniqueIndex;not null"`
	Doc    datatypes.JSON `gorm:"not null"`
}

func NewEmptyMissionState() MissionState {
	return MissionState{
		SeenMissionIDs:      []string{},
		CompletedMissionIDs: []string{},
		Completed:           map[string]CompletionRecord{},
	}
}

// IsCompleted reports whether id is already in CompletedMissionIDs.
func (s MissionState) IsCompleted(id string) bool {
	for _, c := range s.CompletedMissionIDs {
		if c == id {
			return true
		}
	}
	return false
}

// HasSeen reports whether id is already in SeenMissionIDs.
func (s MissionState) HasSeen(id string) bool {
	for _, v := range s.SeenMissionIDs {
		if v == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so a caller can mutate freely before persisting.
func (s MissionState) Clone() MissionState {
	out := s
	out.SeenMissionIDs = append([]string{}, s.SeenMissionIDs...)
	out.CompletedMissionIDs = append([]string{}, s.CompletedMissionIDs...)
	out.Completed = make(map[string]CompletionRecord, len(s.Completed))
	for k, v := range s.Completed {
		out.Completed[k] = v
	}
	return out
}

// Clone returns a deep copy of the whole document.
func (d UserDoc) Clone() UserDoc {
	out := d
	out.MissionState = d.MissionState.Clone()
	return out
}
