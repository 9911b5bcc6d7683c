package model

import "time"

type User struct {
	TelegramID       int64
	Username         string
	ReferralCode     string
	ReferrerID       *int64
	TotalInvites     int
	AvailableInvites int
	ChannelVerified  bool
	LastClaimDate    *time.Time
	RegistrationDate time.Time
}

// HasClaimedOn reports whether the user's most recent claim fell on the
// given UTC calendar day.
func (u *User) HasClaimedOn(day time.Time) bool {
	if u.LastClaimDate == nil {
		return false
	}
	y1, m1, d1 := u.LastClaimDate.UTC().Date()
	y2, m2, d2 := day.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

type Balance struct {
	TotalInvites     int
	AvailableInvites int
	LastClaimDate    *time.Time
	ChannelVerified  bool
}

type TopReferrer struct {
	TelegramID   int64
	Username     string
	TotalInvites int
	RefereeIDs   []int64
}
