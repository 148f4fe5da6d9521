package missions

import (
	"context"
	"errors"
	"time"

	"github.com/Raficate/missions/backend/catalog"
	"github.com/Raficate/missions/backend/models"
	"github.com/Raficate/missions/backend/store"
)

var (
	// ErrNotAuthenticated is returned when an operation is invoked
	// without a resolvable user identity.
	ErrNotAuthenticated = errors.New("user not authenticated")

	// ErrNoActiveMission is returned when Complete is called with no
	// mission assigned for the current day. The normal UI flow never
	// reaches this; it guards against completing an arbitrary mission.
	ErrNoActiveMission = errors.New("no active mission for today")
)

// Identity is the resolved caller. Only UID takes part in selection;
// the rest is display-only and mirrored into the stored document.
type Identity struct {
	UID         string
	DisplayName string
	Email       string
	PhotoURL    string
}

// Flags are derived from state and catalog after every mutation. They are
// never persisted, so they cannot diverge from the state they describe.
type Flags struct {
	MissionRevealed bool `json:"missionRevealed"`
	TodayCompleted  bool `json:"todayCompleted"`
	AllCompleted    bool `json:"allCompleted"`
	CompletedCount  int  `json:"completedCount"`
	TotalMissions   int  `json:"totalMissions"`
}

// RevealResult reports the outcome of a Reveal call.
type RevealResult struct {
	// Mission is today's mission, nil only when AllCompleted.
	Mission         *models.Mission
	AlreadyRevealed bool
	AllCompleted    bool
}

// Service is the per-user mission assignment and progress state machine.
// It owns no ambient singletons: catalog, store, zone and clock all come
// in through the constructor.
type Service struct {
	catalog *catalog.Catalog
	store   store.DocumentStore
	zone    *time.Location
	now     func() time.Time
	notify  func(uid string, state models.MissionState)
}

type Option func(*Service)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNotify registers a hook invoked after every persisted mutation.
// UI layers subscribe here instead of to any framework primitive.
func WithNotify(fn func(uid string, state models.MissionState)) Option {
	return func(s *Service) { s.notify = fn }
}

func NewService(cat *catalog.Catalog, st store.DocumentStore, zone *time.Location, opts ...Option) *Service {
	s := &Service{
		catalog: cat,
		store:   st,
		zone:    zone,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DayKey returns the day key for t in the service zone.
func (s *Service) DayKey(t time.Time) string {
	return DayKeyIn(t, s.zone)
}

// Load fetches the caller's document, creating an empty one carrying the
// profile fields on first access.
func (s *Service) Load(ctx context.Context, ident Identity) (models.UserDoc, error) {
	if ident.UID == "" {
		return models.UserDoc{}, ErrNotAuthenticated
	}

	doc, err := s.store.Get(ctx, ident.UID)
	if err != nil {
		return models.UserDoc{}, err
	}
	if doc != nil {
		return *doc, nil
	}

	fresh := models.UserDoc{
		UserProfile: models.UserProfile{
			DisplayName: ident.DisplayName,
			Email:       ident.Email,
			PhotoURL:    ident.PhotoURL,
		},
		MissionState: models.NewEmptyMissionState(),
	}
	if err := s.store.Create(ctx, ident.UID, fresh); err != nil {
		return models.UserDoc{}, err
	}
	return fresh, nil
}

// State returns the current mission state with its derived flags.
func (s *Service) State(ctx context.Context, ident Identity) (models.MissionState, Flags, error) {
	doc, err := s.Load(ctx, ident)
	if err != nil {
		return models.MissionState{}, Flags{}, err
	}
	return doc.MissionState, s.Flags(doc.MissionState), nil
}

// Flags recomputes the derived view flags for a state.
func (s *Service) Flags(state models.MissionState) Flags {
	f := Flags{
		CompletedCount: len(state.CompletedMissionIDs),
		TotalMissions:  s.catalog.Len(),
	}

	if s.catalog.Len() > 0 {
		f.AllCompleted = true
		for _, m := range s.catalog.Missions() {
			if !state.IsCompleted(m.ID) {
				f.AllCompleted = false
				break
			}
		}
	}

	if state.LastMissionID != "" {
		f.TodayCompleted = state.IsCompleted(state.LastMissionID)
	}

	if state.LastAssignedDate == s.DayKey(s.now()) && state.LastMissionID != "" {
		_, resolves := s.catalog.ByID(state.LastMissionID)
		f.MissionRevealed = resolves
	}
	return f
}

// TodayMission resolves the mission assigned for the current day, if any.
func (s *Service) TodayMission(state models.MissionState) (models.Mission, bool) {
	if state.LastAssignedDate != s.DayKey(s.now()) || state.LastMissionID == "" {
		return models.Mission{}, false
	}
	return s.catalog.ByID(state.LastMissionID)
}

// Reveal assigns today's mission, or returns the one already assigned.
// Calling it twice on the same day never reassigns; the selection is a
// pure function of (uid, day key, remaining missions).
func (s *Service) Reveal(ctx context.Context, ident Identity) (models.MissionState, RevealResult, error) {
	doc, err := s.Load(ctx, ident)
	if err != nil {
		return models.MissionState{}, RevealResult{}, err
	}
	state := doc.MissionState
	today := s.DayKey(s.now())

	if state.LastAssignedDate == today && state.LastMissionID != "" {
		if m, ok := s.catalog.ByID(state.LastMissionID); ok {
			return state, RevealResult{Mission: &m, AlreadyRevealed: true}, nil
		}
		// Stale id: the catalog no longer has it, treat as unassigned.
	}

	available := s.available(state)
	if len(available) == 0 {
		// Terminal for the day, not an error.
		return state, RevealResult{AllCompleted: true}, nil
	}

	selected := deterministicSelect(ident.UID, today, available)

	next := state.Clone()
	next.LastAssignedDate = today
	next.LastMissionID = selected.ID
	if !next.HasSeen(selected.ID) {
		next.SeenMissionIDs = append(next.SeenMissionIDs, selected.ID)
	}

	if err := s.store.UpdateState(ctx, ident.UID, next); err != nil {
		return state, RevealResult{}, err
	}
	s.changed(ident.UID, next)
	return next, RevealResult{Mission: &selected}, nil
}

// Complete marks today's mission as done. Completing an already-completed
// mission is a no-op: nothing is written and the recorded timestamp does
// not move.
func (s *Service) Complete(ctx context.Context, ident Identity) (models.MissionState, error) {
	doc, err := s.Load(ctx, ident)
	if err != nil {
		return models.MissionState{}, err
	}
	state := doc.MissionState

	mission, ok := s.TodayMission(state)
	if !ok {
		return state, ErrNoActiveMission
	}
	if state.IsCompleted(mission.ID) {
		return state, nil
	}

	next := state.Clone()
	next.CompletedMissionIDs = append(next.CompletedMissionIDs, mission.ID)
	next.Completed[mission.ID] = models.CompletionRecord{CompletedAt: s.now()}

	if err := s.store.UpdateState(ctx, ident.UID, next); err != nil {
		return state, err
	}
	s.changed(ident.UID, next)
	return next, nil
}

// Reset replaces the persisted state with a fresh empty one.
func (s *Service) Reset(ctx context.Context, ident Identity) (models.MissionState, error) {
	if _, err := s.Load(ctx, ident); err != nil {
		return models.MissionState{}, err
	}

	next := models.NewEmptyMissionState()
	if err := s.store.UpdateState(ctx, ident.UID, next); err != nil {
		return models.MissionState{}, err
	}
	s.changed(ident.UID, next)
	return next, nil
}

// SeenMissions joins the seen ids with the catalog, in reveal order.
// Ids the catalog no longer knows are skipped.
func (s *Service) SeenMissions(state models.MissionState) []models.Mission {
	return s.resolve(state.SeenMissionIDs)
}

// CompletedMissions joins the completed ids with the catalog, in
// completion order.
func (s *Service) CompletedMissions(state models.MissionState) []models.Mission {
	return s.resolve(state.CompletedMissionIDs)
}

// CompletedAt returns when the given mission was completed.
func (s *Service) CompletedAt(state models.MissionState, id string) (time.Time, bool) {
	rec, ok := state.Completed[id]
	if !ok {
		return time.Time{}, false
	}
	return rec.CompletedAt, true
}

func (s *Service) resolve(ids []string) []models.Mission {
	out := make([]models.Mission, 0, len(ids))
	for _, id := range ids {
		if m, ok := s.catalog.ByID(id); ok {
			out = append(out, m)
		}
	}
	return out
}

// available is the catalog minus the completed missions, in catalog order.
func (s *Service) available(state models.MissionState) []models.Mission {
	var out []models.Mission
	for _, m := range s.catalog.Missions() {
		if !state.IsCompleted(m.ID) {
			out = append(out, m)
		}
	}
	return out
}

// deterministicSelect picks one mission from a non-empty pool. The same
// (userID, dayKey) always selects the same mission as long as the pool is
// unchanged; a changed pool may shift future days but is never used to
// reselect a day already assigned.
func deterministicSelect(userID, dayKey string, available []models.Mission) models.Mission {
	seed := seedHash(userID + dayKey)
	return available[seed%len(available)]
}

func (s *Service) changed(uid string, state models.MissionState) {
	if s.notify != nil {
		s.notify(uid, state)
	}
}
