package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Raficate/missions/backend/models"
)

// ErrUnavailable is returned when the catalog source cannot be read or
// parsed. There are no missions to offer until the load is retried.
var ErrUnavailable = errors.New("mission catalog unavailable")

// Catalog is the ordered, immutable list of all missions, loaded once per
// process. Order matters only as a stable iteration basis.
type Catalog struct {
	missions []models.Mission
	byID     map[string]models.Mission
}

// Load reads the catalog from a JSON file of {id, text} records.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return Parse(data)
}

// Parse builds a Catalog from raw JSON. IDs must be non-empty and unique;
// clients store them, so a broken list is rejected wholesale.
func Parse(data []byte) (*Catalog, error) {
	var missions []models.Mission
	if err := json.Unmarshal(data, &missions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	byID := make(map[string]models.Mission, len(missions))
	for _, m := range missions {
		if m.ID == "" {
			return nil, fmt.Errorf("%w: mission with empty id", ErrUnavailable)
		}
		if _, dup := byID[m.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate mission id %q", ErrUnavailable, m.ID)
		}
		byID[m.ID] = m
	}

	return &Catalog{missions: missions, byID: byID}, nil
}

// Missions returns the missions in load order. Callers must not modify
// the returned slice.
func (c *Catalog) Missions() []models.Mission {
	return c.missions
}

// ByID resolves a mission identifier. A miss is not an error: a persisted
// id may reference a mission removed from the catalog since.
func (c *Catalog) ByID(id string) (models.Mission, bool) {
	m, ok := c.byID[id]
	return m, ok
}

func (c *Catalog) Len() int {
	return len(c.missions)
}
