// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package artist implements the verified-artist badge domain.

An artist earns the badge once they own [verification.Threshold] artworks.
Every artwork mutation in a [Repository] recomputes the owner's artwork count
and re-applies the verification rule in the same logical step.

Architecture:

  - Repository: the store contract with memory and Postgres implementations.
  - Service: presence validation, logging and the verification stats cache.
  - Handler: the JSON HTTP surface consumed by the badge UI.
*/
package artist

import (
	"math"
	"time"

	"github.com/taibuivan/artverify/internal/core/verification"
)

// Status is the review lifecycle of an artwork: pending → approved.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

// Artist is a creator profile carrying the verification badge.
type Artist struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Location  string    `json:"location,omitempty"`
	Specialty string    `json:"specialty,omitempty"`
	JoinDate  time.Time `json:"join_date"`

	// ArtworkCount is cached; it is rewritten whenever the count is recomputed.
	ArtworkCount int  `json:"artwork_count"`
	IsVerified   bool `json:"is_verified"`

	// VerificationDate is set on a false → true transition and never cleared.
	VerificationDate *time.Time `json:"verification_date"`
}

// Artwork is a piece uploaded by an artist.
type Artwork struct {
	ID       int `json:"id"`
	ArtistID int `json:"artist_id"`

	// Artist is the free-text artist name supplied with the upload.
	Artist      string    `json:"artist"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Medium      string    `json:"medium,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewArtist holds the fields accepted when registering an artist.
type NewArtist struct {
	Name      string     `json:"name"`
	Location  string     `json:"location"`
	Specialty string     `json:"specialty"`
	JoinDate  *time.Time `json:"join_date"`
}

// NewArtwork holds the fields accepted when uploading an artwork.
type NewArtwork struct {
	ArtistID    int    `json:"artist_id"`
	Artist      string `json:"artist"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Medium      string `json:"medium"`
	ImageURL    string `json:"image_url"`
}

// MutationResult is returned by artwork mutations.
//
// Artist is nil when the artwork references an unknown artist.
type MutationResult struct {
	Artwork             Artwork `json:"artwork"`
	Artist              *Artist `json:"artist"`
	VerificationChanged bool    `json:"verification_changed"`
}

// Stats is the verification dashboard aggregate.
type Stats struct {
	TotalArtists     int     `json:"total_artists"`
	VerifiedArtists  int     `json:"verified_artists"`
	VerificationRate float64 `json:"verification_rate"`
	TotalArtworks    int     `json:"total_artworks"`
	ApprovedArtworks int     `json:"approved_artworks"`
}

// Field names used in validation errors.
const (
	FieldName         = "name"
	FieldTitle        = "title"
	FieldArtistID     = "artist_id"
	FieldIsVerified   = "is_verified"
	FieldArtworkCount = "artwork_count"
)

// # Verification bridge

func (a Artist) state() verification.State {
	return verification.State{
		ArtworkCount:     a.ArtworkCount,
		IsVerified:       a.IsVerified,
		VerificationDate: a.VerificationDate,
	}
}

// withState returns a copy of a carrying the given verification state.
func (a Artist) withState(s verification.State) Artist {
	a.ArtworkCount = s.ArtworkCount
	a.IsVerified = s.IsVerified
	a.VerificationDate = s.VerificationDate
	return a.clone()
}

// clone returns a deep copy; VerificationDate is the only shared reference.
func (a Artist) clone() Artist {
	if a.VerificationDate != nil {
		date := *a.VerificationDate
		a.VerificationDate = &date
	}
	return a
}

// newStats derives the rate, rounded to one decimal and 0 for an empty store.
func newStats(totalArtists, verifiedArtists, totalArtworks, approvedArtworks int) *Stats {
	stats := &Stats{
		TotalArtists:     totalArtists,
		VerifiedArtists:  verifiedArtists,
		TotalArtworks:    totalArtworks,
		ApprovedArtworks: approvedArtworks,
	}

	if totalArtists > 0 {
		rate := float64(verifiedArtists) / float64(totalArtists) * 100
		stats.VerificationRate = math.Round(rate*10) / 10
	}

	return stats
}
