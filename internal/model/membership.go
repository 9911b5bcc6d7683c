package model

// MembershipStatus is the outcome of a channel membership check.
type MembershipStatus int

const (
	// MembershipUnknown covers transport failures, timeouts and the bot
	// lacking admin rights in the channel. Callers gate on it the same as
	// MembershipNotJoined.
	MembershipUnknown MembershipStatus = iota
	MembershipJoined
	MembershipNotJoined
)

func (s MembershipStatus) String() string {
	switch s {
	case MembershipJoined:
		return "joined"
	case MembershipNotJoined:
		return "not_joined"
	default:
		return "unknown"
	}
}
