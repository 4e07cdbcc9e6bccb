package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/tournament-league/models"
)

// MemoryStore implements TournamentRepository and RosterRepository in process.
// Every write validates first and mutates second, so a failed call leaves no trace.
type MemoryStore struct {
	mu          sync.RWMutex
	tournaments map[string]*models.Tournament
	matchIndex  map[string]string
	members     map[string]models.TeamMember
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tournaments: make(map[string]*models.Tournament),
		matchIndex:  make(map[string]string),
		members:     make(map[string]models.TeamMember),
	}
}

func (s *MemoryStore) Create(_ context.Context, t *models.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tournaments[t.ID]; ok {
		return fmt.Errorf("%w: %s", ErrTournamentConflict, t.ID)
	}
	pairs := make(map[[2]string]struct{}, len(t.Matches))
	for _, m := range t.Matches {
		if _, ok := s.matchIndex[m.ID]; ok {
			return fmt.Errorf("match id %s already exists", m.ID)
		}
		key := [2]string{m.Player1ID, m.Player2ID}
		if _, ok := pairs[key]; ok {
			return fmt.Errorf("%w: %s vs %s", ErrMatchPairConflict, m.Player1ID, m.Player2ID)
		}
		pairs[key] = struct{}{}
	}

	s.tournaments[t.ID] = t.Clone()
	for _, m := range t.Matches {
		s.matchIndex[m.ID] = t.ID
	}
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return t.Clone(), nil
}

func (s *MemoryStore) GetByMatchID(ctx context.Context, matchID string) (*models.Tournament, error) {
	s.mu.RLock()
	tournamentID, ok := s.matchIndex[matchID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrMatchNotFound
	}
	return s.GetByID(ctx, tournamentID)
}

func (s *MemoryStore) List(_ context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tournaments := make([]models.Tournament, 0)
	for _, t := range s.tournaments {
		if t.OwnerTeamID != filter.OwnerTeamID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		tournaments = append(tournaments, header(t))
	}
	sort.Slice(tournaments, func(i, j int) bool {
		if !tournaments[i].CreatedAt.Equal(tournaments[j].CreatedAt) {
			return tournaments[i].CreatedAt.After(tournaments[j].CreatedAt)
		}
		return tournaments[i].ID < tournaments[j].ID
	})
	if filter.Limit > 0 && len(tournaments) > filter.Limit {
		tournaments = tournaments[:filter.Limit]
	}
	return tournaments, nil
}

func (s *MemoryStore) SaveMatchTransition(_ context.Context, tr MatchTransition) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tournaments[tr.TournamentID]
	if !ok {
		return 0, ErrTournamentNotFound
	}
	if t.Version != tr.ExpectedVersion {
		return 0, ErrVersionConflict
	}
	stored := t.FindMatch(tr.Match.ID)
	if stored == nil {
		return 0, ErrMatchNotFound
	}
	if stored.Status != tr.FromStatus {
		return 0, ErrVersionConflict
	}
	for _, row := range tr.Standings {
		if t.FindStanding(row.PlayerID) == nil {
			return 0, ErrStandingNotFound
		}
	}

	*stored = tr.Match.Clone()
	for _, row := range tr.Standings {
		target := t.FindStanding(row.PlayerID)
		position := target.Position
		*target = row
		target.Position = position
	}
	t.Version++
	return t.Version, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, expectedVersion int64, status models.TournamentStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tournaments[id]
	if !ok {
		return 0, ErrTournamentNotFound
	}
	if t.Version != expectedVersion {
		return 0, ErrVersionConflict
	}
	t.Status = status
	t.Version++
	return t.Version, nil
}

func (s *MemoryStore) GetTournamentsForAutoStatusUpdate(_ context.Context, now time.Time) ([]models.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tournaments := make([]models.Tournament, 0)
	for _, t := range s.tournaments {
		due := (t.Status == models.TournamentScheduled && !t.StartDate.After(now)) ||
			(t.Status == models.TournamentActive && t.EndDate.Before(now))
		if due {
			tournaments = append(tournaments, header(t))
		}
	}
	sort.Slice(tournaments, func(i, j int) bool { return tournaments[i].StartDate.Before(tournaments[j].StartDate) })
	return tournaments, nil
}

func (s *MemoryStore) TeamOf(_ context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[userID]
	if !ok {
		return "", ErrTeamMemberNotFound
	}
	return m.TeamID, nil
}

func (s *MemoryStore) AddMember(_ context.Context, teamID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[userID]
	if !ok {
		m = models.TeamMember{UserID: userID, CreatedAt: time.Now().UTC()}
	}
	m.TeamID = teamID
	s.members[userID] = m
	return nil
}

func (s *MemoryStore) ListMembers(_ context.Context, teamID string) ([]models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]models.TeamMember, 0)
	for _, m := range s.members {
		if m.TeamID == teamID {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if !members[i].CreatedAt.Equal(members[j].CreatedAt) {
			return members[i].CreatedAt.Before(members[j].CreatedAt)
		}
		return members[i].UserID < members[j].UserID
	})
	return members, nil
}

func header(t *models.Tournament) models.Tournament {
	h := *t
	h.ParticipantIDs = nil
	h.Matches = nil
	h.Standings = nil
	return h
}
