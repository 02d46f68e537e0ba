// Package opreturn defines the type bytes that lead a DAO OP_RETURN payload.
package opreturn

import "fmt"

// Type is the first byte of a DAO OP_RETURN payload.
type Type byte

const (
	CompensationRequest Type = 0x01
	Proposal            Type = 0x02
	BlindVote           Type = 0x03
	VoteReveal          Type = 0x04
	LockUp              Type = 0x05
	Unlock              Type = 0x06
)

// Kind tells the dispatcher how to treat a type byte.
type Kind int

const (
	// KindUnknown is an unallocated byte (0x00, 0x07 and above).
	KindUnknown Kind = iota
	// KindImplemented has a verifier.
	KindImplemented
	// KindPlaceholder is allocated but intentionally a no-op for now.
	KindPlaceholder
)

func (k Kind) String() string {
	switch k {
	case KindImplemented:
		return "implemented"
	case KindPlaceholder:
		return "placeholder"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Implemented lists the types that must have a verifier.
var Implemented = []Type{CompensationRequest, BlindVote, VoteReveal}

// Lookup maps a leading payload byte to its Type and Kind. Every byte value
// maps to exactly one Kind.
func Lookup(b byte) (Type, Kind) {
	t := Type(b)
	switch t {
	case CompensationRequest, BlindVote, VoteReveal:
		return t, KindImplemented
	case Proposal, LockUp, Unlock:
		// New DAO tx types get a verifier here once their payload is defined.
		return t, KindPlaceholder
	default:
		return t, KindUnknown
	}
}

func (t Type) String() string {
	switch t {
	case CompensationRequest:
		return "compensation_request"
	case Proposal:
		return "proposal"
	case BlindVote:
		return "blind_vote"
	case VoteReveal:
		return "vote_reveal"
	case LockUp:
		return "lock_up"
	case Unlock:
		return "unlock"
	default:
		return fmt.Sprintf("unknown_0x%02x", byte(t))
	}
}
