package model

import "time"

// ClaimPrice is the number of available invites consumed by one successful
// gift-code claim. Every deployed variant of this bot hardcodes 2.
const ClaimPrice = 2

type ClaimResult struct {
	GiftCode  string
	ClaimedAt time.Time
}

type GiftCode struct {
	Value           string
	RedemptionsLeft *int
}

type BotStats struct {
	TotalUsers     int
	TotalReferrals int
	TotalClaims    int
	VerifiedUsers  int
}
