package brackets

import (
	"errors"
	"fmt"
)

var (
	ErrNotEnoughParticipants = errors.New("round robin needs at least 2 participants")
	ErrDuplicateParticipant  = errors.New("participant listed more than once")
	ErrBlankParticipant      = errors.New("participant id is blank")
)

// Pairing is one generated fixture. Seq is 1-based and follows generation order.
type Pairing struct {
	Seq       int
	Player1ID string
	Player2ID string
}

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() *RoundRobinGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// Generate creates a single round-robin: every unordered pair (i, j) with i < j over the
// participant list, in list order. Same input list, same output.
func (g *RoundRobinGenerator) Generate(participantIDs []string) ([]Pairing, error) {
	if len(participantIDs) < 2 {
		return nil, fmt.Errorf("%w (found %d)", ErrNotEnoughParticipants, len(participantIDs))
	}

	seen := make(map[string]struct{}, len(participantIDs))
	for _, id := range participantIDs {
		if id == "" {
			return nil, ErrBlankParticipant
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, id)
		}
		seen[id] = struct{}{}
	}

	n := len(participantIDs)
	pairings := make([]Pairing, 0, n*(n-1)/2)
	seq := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			seq++
			pairings = append(pairings, Pairing{
				Seq:       seq,
				Player1ID: participantIDs[i],
				Player2ID: participantIDs[j],
			})
		}
	}
	return pairings, nil
}
