package repositories

import "errors"

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentConflict = errors.New("tournament id conflict")
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchPairConflict  = errors.New("match pair already exists in tournament")
	ErrStandingNotFound   = errors.New("tournament standing not found")
	ErrVersionConflict    = errors.New("tournament was modified concurrently")
	ErrTeamMemberNotFound = errors.New("user does not belong to a team")
)
