package store

import (
	"sort"
	"sync"

	"uniliga-tracker/internal/domain"
)

// Dataset is the full normalized input of one loaded season: the match
// record store, standings rows, rating snapshots and detected system flags.
// Immutable once swapped in; a reload replaces it wholesale.
type Dataset struct {
	View                domain.ViewContext
	Matches             []domain.MatchRecord
	Standings           []domain.StandingsRow
	InitialRatings      map[string]float64
	PreviousSeasonTeams map[string]struct{}
	Flags               domain.SystemFlags
}

// MatchesOfKind filters the match store by phase kind.
func (d *Dataset) MatchesOfKind(kinds ...domain.PhaseKind) []domain.MatchRecord {
	var out []domain.MatchRecord
	for _, m := range d.Matches {
		for _, kind := range kinds {
			if m.Kind == kind {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// DetectFlags scans the dataset once at swap time for phase-code families
// and bucket tags. Consumers read the flags, never re-derive them.
func (d *Dataset) DetectFlags() {
	flags := domain.SystemFlags{GroupsByDivision: make(map[int][]string)}

	for _, m := range d.Matches {
		switch m.Kind {
		case domain.KindPrimaryElimination:
			flags.HasPrimaryElimination = true
		case domain.KindSecondaryElimination:
			flags.HasMaintenanceElimination = true
		case domain.KindSecondaryLeague:
			flags.HasMaintenanceLeague = true
		}
	}

	divisions := make(map[int]bool)
	groups := make(map[int]map[string]bool)
	for _, row := range d.Standings {
		if row.Division != 0 {
			divisions[row.Division] = true
		}
		if row.Group != "" {
			if groups[row.Division] == nil {
				groups[row.Division] = make(map[string]bool)
			}
			groups[row.Division][row.Group] = true
		}
	}
	for division := range divisions {
		flags.Divisions = append(flags.Divisions, division)
	}
	sort.Ints(flags.Divisions)
	for division, names := range groups {
		for name := range names {
			flags.GroupsByDivision[division] = append(flags.GroupsByDivision[division], name)
		}
		sort.Strings(flags.GroupsByDivision[division])
	}

	d.Flags = flags
}

// Store holds the current dataset behind a single writer. Swap atomically
// replaces it and bumps the version; derived caches key off the version so a
// replacement invalidates them all.
type Store struct {
	mu      sync.RWMutex
	current *Dataset
	version uint64
}

func New() *Store {
	return &Store{}
}

// Swap installs a freshly loaded dataset and returns the new version.
func (s *Store) Swap(dataset *Dataset) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = dataset
	s.version++
	return s.version
}

// Current returns the active dataset and its version. The dataset is nil
// until the first successful load.
func (s *Store) Current() (*Dataset, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.version
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
