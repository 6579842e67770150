// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package verification holds the rule that decides whether an artist carries
the "verified" badge.

The rule is pure: it never reads the clock or touches storage. Callers pass
the current time in, which keeps every decision reproducible in tests.

Rules:

  - Eligibility: an artist is eligible once their artwork count reaches [Threshold].
  - Timestamp: the verification date is stamped only when the badge flips on.
  - Retention: the date is never cleared when the badge flips off.
*/
package verification

import "time"

// Threshold is the minimum artwork count required for the verified badge.
const Threshold = 3

// State is the verification-relevant slice of an artist record.
type State struct {
	ArtworkCount     int
	IsVerified       bool
	VerificationDate *time.Time
}

// IsEligible reports whether count reaches the verification threshold.
//
// Negative counts are not a meaningful input; they are simply not eligible.
func IsEligible(count int) bool {
	return count >= Threshold
}

// Apply recomputes the verification state for a new artwork count.
//
// # Timestamp
//
// VerificationDate is set to now only on a false → true transition of
// IsVerified. Otherwise the prior date is carried over, including when the
// badge is lost. A caller that passes a "not verified" state twice gets a
// fresh stamp both times.
func Apply(prior State, count int, now time.Time) State {
	return transition(prior, IsEligible(count), count, now)
}

// Override writes isVerified and count as given, bypassing eligibility.
//
// It is the administrative path. The timestamp follows the same
// false → true rule as [Apply].
func Override(prior State, isVerified bool, count int, now time.Time) State {
	return transition(prior, isVerified, count, now)
}

// Changed reports whether the verified flag differs between two states.
func Changed(before, after State) bool {
	return before.IsVerified != after.IsVerified
}

func transition(prior State, verified bool, count int, now time.Time) State {
	next := State{
		ArtworkCount:     count,
		IsVerified:       verified,
		VerificationDate: cloneTime(prior.VerificationDate),
	}

	if verified && !prior.IsVerified {
		stamp := now
		next.VerificationDate = &stamp
	}

	return next
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}
