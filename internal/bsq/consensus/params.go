package consensus

import (
	"errors"
	"fmt"
)

// Phase is a section of the DAO voting cycle.
type Phase string

const (
	PhaseUndefined           Phase = "UNDEFINED"
	PhaseCompensationRequest Phase = "COMPENSATION_REQUEST"
	PhaseBreak1              Phase = "BREAK1"
	PhaseBlindVote           Phase = "BLIND_VOTE"
	PhaseBreak2              Phase = "BREAK2"
	PhaseVoteReveal          Phase = "VOTE_REVEAL"
	PhaseBreak3              Phase = "BREAK3"
	PhaseVoteResult          Phase = "VOTE_RESULT"
)

// PhaseDurations holds the length of every phase in blocks.
type PhaseDurations struct {
	CompensationRequest uint64
	Break1              uint64
	BlindVote           uint64
	Break2              uint64
	VoteReveal          uint64
	Break3              uint64
	VoteResult          uint64
}

func (d PhaseDurations) ordered() []struct {
	phase    Phase
	duration uint64
} {
	return []struct {
		phase    Phase
		duration uint64
	}{
		{PhaseCompensationRequest, d.CompensationRequest},
		{PhaseBreak1, d.Break1},
		{PhaseBlindVote, d.BlindVote},
		{PhaseBreak2, d.Break2},
		{PhaseVoteReveal, d.VoteReveal},
		{PhaseBreak3, d.Break3},
		{PhaseVoteResult, d.VoteResult},
	}
}

// CycleLength is the number of blocks of one full DAO cycle.
func (d PhaseDurations) CycleLength() uint64 {
	var total uint64
	for _, p := range d.ordered() {
		total += p.duration
	}
	return total
}

// Params are the DAO consensus parameters of a network.
type Params struct {
	GenesisTxID   string
	GenesisHeight uint64

	CompensationRequestFee int64
	BlindVoteFee           int64

	CompensationRequestVersion byte
	BlindVoteVersion           byte
	VoteRevealVersion          byte

	Phases PhaseDurations
}

// DefaultParams returns parameters with the production phase lengths and fees
// and no genesis transaction.
func DefaultParams() Params {
	return Params{
		CompensationRequestFee:     100,
		BlindVoteFee:               200,
		CompensationRequestVersion: 0x01,
		BlindVoteVersion:           0x01,
		VoteRevealVersion:          0x01,
		Phases: PhaseDurations{
			CompensationRequest: 144 * 23,
			Break1:              10,
			BlindVote:           144 * 4,
			Break2:              10,
			VoteReveal:          144 * 2,
			Break3:              10,
			VoteResult:          2,
		},
	}
}

// Validate checks that the parameters describe a usable network.
func (p Params) Validate() error {
	if p.GenesisTxID == "" {
		return errors.New("genesis tx id is required")
	}
	if p.CompensationRequestFee <= 0 {
		return fmt.Errorf("compensation request fee must be positive: %d", p.CompensationRequestFee)
	}
	if p.BlindVoteFee <= 0 {
		return fmt.Errorf("blind vote fee must be positive: %d", p.BlindVoteFee)
	}
	if p.Phases.CycleLength() == 0 {
		return errors.New("dao cycle length must be positive")
	}
	return nil
}

// Phase returns the DAO phase the block at height belongs to. Cycles start at
// the genesis height and repeat back to back.
func (p Params) Phase(height uint64) Phase {
	cycle := p.Phases.CycleLength()
	if height < p.GenesisHeight || cycle == 0 {
		return PhaseUndefined
	}

	offset := (height - p.GenesisHeight) % cycle
	for _, ph := range p.Phases.ordered() {
		if offset < ph.duration {
			return ph.phase
		}
		offset -= ph.duration
	}
	return PhaseUndefined
}

// IsGenesis reports whether tx at height is the BSQ genesis transaction.
func (p Params) IsGenesis(txID string, height uint64) bool {
	return txID == p.GenesisTxID && height == p.GenesisHeight
}
