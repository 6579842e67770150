// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import "context"

// # Artist Data Access

// Repository is the data access contract for artists and artworks.
//
// # Consistency
//
// Every method is one logical step: reads observe a consistent snapshot and
// mutations either fully commit or leave the store untouched. Returned records
// and slices are copies owned by the caller.
//
// # Counting predicate
//
// Artwork mutations recompute the owner's ArtworkCount as the number of
// artworks whose ArtistID equals the artist ID, whatever their status.
type Repository interface {

	/*
		GetArtist returns the artist with the given ID.

		Returns:
		  - *Artist: Snapshot copy
		  - error: apperr NOT_FOUND if no artist has that ID
	*/
	GetArtist(context context.Context, id int) (*Artist, error)

	/*
		GetArtistByName returns the artist whose name matches exactly.

		Names are unique (enforced through the slug at creation), so at most
		one artist can match.

		Returns:
		  - *Artist: Snapshot copy
		  - error: apperr NOT_FOUND if absent
	*/
	GetArtistByName(context context.Context, name string) (*Artist, error)

	// ListArtists returns every artist in creation order.
	ListArtists(context context.Context) ([]Artist, error)

	/*
		CreateArtist registers a new, unverified artist with no artworks.

		Returns:
		  - *Artist: The stored record with its assigned ID and slug
		  - error: apperr CONFLICT if another artist already uses the same slug
	*/
	CreateArtist(context context.Context, input NewArtist) (*Artist, error)

	// ListArtworks returns every artwork in insertion order.
	ListArtworks(context context.Context) ([]Artwork, error)

	// ListArtworksByArtist returns the artworks of one artist in insertion
	// order, any status. An unknown artist yields an empty slice.
	ListArtworksByArtist(context context.Context, artistID int) ([]Artwork, error)

	/*
		AddArtwork stores a new pending artwork and re-applies the verification
		rule to its owner.

		An unknown ArtistID is not an error: the artwork is still stored and the
		result carries a nil Artist with VerificationChanged = false.

		Returns:
		  - *MutationResult: The artwork, the updated owner and the transition flag
		  - error: Storage failures only
	*/
	AddArtwork(context context.Context, input NewArtwork) (*MutationResult, error)

	/*
		ApproveArtwork marks an artwork approved and re-applies the verification
		rule to its owner.

		Returns:
		  - *MutationResult: As for AddArtwork
		  - error: apperr NOT_FOUND if the artwork does not exist (nothing is changed)
	*/
	ApproveArtwork(context context.Context, artworkID int) (*MutationResult, error)

	/*
		SetVerification is the administrative override: it writes isVerified and
		artworkCount directly without consulting eligibility. The verification
		date follows the false → true rule.

		Returns:
		  - *Artist: The updated record
		  - error: apperr NOT_FOUND if the artist does not exist
	*/
	SetVerification(context context.Context, artistID int, isVerified bool, artworkCount int) (*Artist, error)

	// VerificationStats aggregates the dashboard counters.
	VerificationStats(context context.Context) (*Stats, error)
}
