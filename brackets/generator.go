package brackets

// PairingGenerator turns an ordered participant list into fixtures. Implementations must be
// deterministic: the same list always yields the same pairings.
type PairingGenerator interface {
	Generate(participantIDs []string) ([]Pairing, error)

	GetName() string
}

var _ PairingGenerator = (*RoundRobinGenerator)(nil)
