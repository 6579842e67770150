// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/artverify/internal/core/artist"
	"github.com/taibuivan/artverify/internal/platform/apperr"
)

var (
	joined   = time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	verified = time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	fixedNow = time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
)

func clock() time.Time { return fixedNow }

// testSeed mirrors the demo fixture: one verified artist, one at the
// threshold minus one, and one with no artworks.
func testSeed() artist.Seed {
	date := verified
	return artist.Seed{
		Artists: []artist.Artist{
			{ID: 1, Name: "Mai Tran", JoinDate: joined, ArtworkCount: 3, IsVerified: true, VerificationDate: &date},
			{ID: 2, Name: "Lucas Ferreira", JoinDate: joined, ArtworkCount: 2},
			{ID: 3, Name: "Aiko Sato", JoinDate: joined},
		},
		Artworks: []artist.Artwork{
			{ID: 1, ArtistID: 1, Artist: "Mai Tran", Title: "Morning Over West Lake", Status: artist.StatusApproved},
			{ID: 2, ArtistID: 1, Artist: "Mai Tran", Title: "Lotus Study", Status: artist.StatusApproved},
			{ID: 3, ArtistID: 1, Artist: "Mai Tran", Title: "Old Quarter Rain"},
			{ID: 4, ArtistID: 2, Artist: "Lucas Ferreira", Title: "Ribeira at Dusk", Status: artist.StatusApproved},
			{ID: 5, ArtistID: 2, Artist: "Lucas Ferreira", Title: "Tram 28", Status: artist.StatusPending},
		},
	}
}

func newTestRepository() *artist.MemoryRepository {
	return artist.NewMemoryRepository(testSeed(), artist.WithClock(clock))
}

/*
TestAddArtwork_ReachesThreshold verifies the third artwork earns the badge.
*/
func TestAddArtwork_ReachesThreshold(t *testing.T) {
	repository := newTestRepository()
	ctx := context.Background()

	result, err := repository.AddArtwork(ctx, artist.NewArtwork{ArtistID: 2, Artist: "Lucas Ferreira", Title: "Azulejos"})
	require.NoError(t, err)

	assert.Equal(t, 6, result.Artwork.ID)
	assert.Equal(t, artist.StatusPending, result.Artwork.Status)
	assert.Equal(t, fixedNow, result.Artwork.CreatedAt)
	assert.True(t, result.VerificationChanged)

	require.NotNil(t, result.Artist)
	assert.Equal(t, 3, result.Artist.ArtworkCount)
	assert.True(t, result.Artist.IsVerified)
	require.NotNil(t, result.Artist.VerificationDate)
	assert.True(t, result.Artist.VerificationDate.Equal(fixedNow))

	stored, err := repository.GetArtist(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, *result.Artist, *stored)
}

/*
TestAddArtwork_ThreeUploadsFromZero walks an artist through the threshold one
upload at a time.
*/
func TestAddArtwork_ThreeUploadsFromZero(t *testing.T) {
	repository := newTestRepository()
	ctx := context.Background()

	expected := []struct {
		count    int
		verified bool
		changed  bool
	}{
		{1, false, false},
		{2, false, false},
		{3, true, true},
		{4, true, false},
	}

	for _, step := range expected {
		result, err := repository.AddArtwork(ctx, artist.NewArtwork{ArtistID: 3, Title: "Study"})
		require.NoError(t, err)
		require.NotNil(t, result.Artist)

		assert.Equal(t, step.count, result.Artist.ArtworkCount)
		assert.Equal(t, step.verified, result.Artist.IsVerified)
		assert.Equal(t, step.changed, result.VerificationChanged, "count=%d", step.count)
	}
}

/*
TestAddArtwork_AlreadyVerifiedKeepsDate ensures repeated uploads do not
re-stamp the verification date.
*/
func TestAddArtwork_AlreadyVerifiedKeepsDate(t *testing.T) {
	repository := newTestRepository()

	result, err := repository.AddArtwork(context.Background(), artist.NewArtwork{ArtistID: 1, Title: "Hoan Kiem"})
	require.NoError(t, err)

	require.NotNil(t, result.Artist)
	assert.Equal(t, 4, result.Artist.ArtworkCount)
	assert.False(t, result.VerificationChanged)
	require.NotNil(t, result.Artist.VerificationDate)
	assert.True(t, result.Artist.VerificationDate.Equal(verified))
}

/*
TestAddArtwork_UnknownArtist stores the artwork without touching any artist.
*/
func TestAddArtwork_UnknownArtist(t *testing.T) {
	repository := newTestRepository()
	ctx := context.Background()

	before, err := repository.ListArtists(ctx)
	require.NoError(t, err)

	result, err := repository.AddArtwork(ctx, artist.NewArtwork{ArtistID: 99, Artist: "Nobody", Title: "Orphan"})
	require.NoError(t, err)

	assert.Nil(t, result.Artist)
	assert.False(t, result.VerificationChanged)
	assert.Equal(t, 99, result.Artwork.ArtistID)

	artworks, err := repository.ListArtworks(ctx)
	require.NoError(t, err)
	assert.Len(t, artworks, 6)

	after, err := repository.ListArtists(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

/*
TestApproveArtwork_NotFound leaves both collections unchanged.
*/
func TestApproveArtwork_NotFound(t *testing.T) {
	repository := newTestRepository()
	ctx := context.Background()

	artistsBefore, _ := repository.ListArtists(ctx)
	artworksBefore, _ := repository.ListArtworks(ctx)

	result, err := repository.ApproveArtwork(ctx, 404)

	assert.Nil(t, result)
	assert.True(t, apperr.IsNotFound(err))

	artistsAfter, _ := repository.ListArtists(ctx)
	artworksAfter, _ := repository.ListArtworks(ctx)
	assert.Equal(t, artistsBefore, artistsAfter)
	assert.Equal(t, artworksBefore, artworksAfter)
}

/*
TestApproveArtwork_RecountsOwner marks the artwork approved and rewrites a
stale cached count.
*/
func TestApproveArtwork_RecountsOwner(t *testing.T) {
	seed := testSeed()
	seed.Artists[1].ArtworkCount = 7 // stale
	repository := artist.NewMemoryRepository(seed, artist.WithClock(clock))

	result, err := repository.ApproveArtwork(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, artist.StatusApproved, result.Artwork.Status)
	require.NotNil(t, result.Artist)
	assert.Equal(t, 2, result.Artist.ArtworkCount)
	assert.False(t, result.Artist.IsVerified)
	assert.False(t, result.VerificationChanged)
}

/*
TestApproveArtwork_LosesBadgeWhenRecountDrops covers a verified artist whose
real artwork count is below the threshold.
*/
func TestApproveArtwork_LosesBadgeWhenRecountDrops(t *testing.T) {
	seed := testSeed()
	seed.Artworks = seed.Artworks[:2] // Mai keeps only two artworks
	repository := artist.NewMemoryRepository(seed, artist.WithClock(clock))

	result, err := repository.ApproveArtwork(context.Background(), 1)
	require.NoError(t, err)

	require.NotNil(t, result.Artist)
	assert.False(t, result.Artist.IsVerified)
	assert.True(t, result.VerificationChanged)
	require.NotNil(t, result.Artist.VerificationDate, "the last verification date is kept")
	assert.True(t, result.Artist.VerificationDate.Equal(verified))
}

/*
TestVerificationStats covers the seeded counters and rounding.
*/
func TestVerificationStats(t *testing.T) {
	stats, err := newTestRepository().VerificationStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, artist.Stats{
		TotalArtists:     3,
		VerifiedArtists:  1,
		VerificationRate: 33.3,
		TotalArtworks:    5,
		ApprovedArtworks: 3,
	}, *stats)
}

/*
TestVerificationStats_Empty reports a zero rate rather than NaN.
*/
func TestVerificationStats_Empty(t *testing.T) {
	stats, err := artist.NewMemoryRepository(artist.Seed{}).VerificationStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, artist.Stats{}, *stats)
}

/*
TestCreateArtist assigns the next ID and rejects duplicate names by slug.
*/
func TestCreateArtist(t *testing.T) {
	repository := newTestRepository()
	ctx := context.Background()

	created, err := repository.CreateArtist(ctx, artist.NewArtist{Name: "  Élodie Marchand ", Specialty: "Oil"})
	require.NoError(t, err)

	assert.Equal(t, 4, created.ID)
	assert.Equal(t, "Élodie Marchand", created.Name)
	assert.Equal(t, "elodie-marchand", created.Slug)
	assert.Equal(t, fixedNow, created.JoinDate)
	assert.False(t, created.IsVerified)
	assert.Zero(t, created.ArtworkCount)
	assert.Nil(t, created.VerificationDate)

	_, err = repository.CreateArtist(ctx, artist.NewArtist{Name: "mai tran"})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

/*
TestGetArtistByName is an exact match on the stored name.
*/
func TestGetArtistByName(t *testing.T) {
	repository := newTestRepository()
	ctx := context.Background()

	found, err := repository.GetArtistByName(ctx, "Aiko Sato")
	require.NoError(t, err)
	assert.Equal(t, 3, found.ID)

	_, err = repository.GetArtistByName(ctx, "aiko sato")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestListArtworksByArtist returns an empty, non-nil slice for unknown artists.
*/
func TestListArtworksByArtist(t *testing.T) {
	repository := newTestRepository()
	ctx := context.Background()

	owned, err := repository.ListArtworksByArtist(ctx, 2)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, 4, owned[0].ID)
	assert.Equal(t, artist.StatusPending, owned[1].Status)

	none, err := repository.ListArtworksByArtist(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

/*
TestSetVerification_Override ignores eligibility and keeps the date on revoke.
*/
func TestSetVerification_Override(t *testing.T) {
	repository := newTestRepository()
	ctx := context.Background()

	granted, err := repository.SetVerification(ctx, 3, true, 0)
	require.NoError(t, err)
	assert.True(t, granted.IsVerified)
	assert.Zero(t, granted.ArtworkCount)
	require.NotNil(t, granted.VerificationDate)
	assert.True(t, granted.VerificationDate.Equal(fixedNow))

	revoked, err := repository.SetVerification(ctx, 3, false, 12)
	require.NoError(t, err)
	assert.False(t, revoked.IsVerified)
	assert.Equal(t, 12, revoked.ArtworkCount)
	require.NotNil(t, revoked.VerificationDate)
	assert.True(t, revoked.VerificationDate.Equal(fixedNow))

	_, err = repository.SetVerification(ctx, 77, true, 3)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestSnapshotsAreCopies ensures callers cannot mutate stored state.
*/
func TestSnapshotsAreCopies(t *testing.T) {
	repository := newTestRepository()
	ctx := context.Background()

	first, err := repository.GetArtist(ctx, 1)
	require.NoError(t, err)
	first.Name = "Changed"
	*first.VerificationDate = fixedNow

	artists, err := repository.ListArtists(ctx)
	require.NoError(t, err)
	artists[0].IsVerified = false

	again, err := repository.GetArtist(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Mai Tran", again.Name)
	assert.True(t, again.IsVerified)
	assert.True(t, again.VerificationDate.Equal(verified))
}

/*
TestNewMemoryRepository_Defaults derives slugs, statuses and ID counters.
*/
func TestNewMemoryRepository_Defaults(t *testing.T) {
	seed := artist.Seed{
		Artists:  []artist.Artist{{ID: 10, Name: "Zoë Hart"}},
		Artworks: []artist.Artwork{{ID: 40, ArtistID: 10, Title: "Untitled"}},
	}
	repository := artist.NewMemoryRepository(seed, artist.WithClock(clock))
	ctx := context.Background()

	stored, err := repository.GetArtist(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "zoe-hart", stored.Slug)

	artworks, err := repository.ListArtworks(ctx)
	require.NoError(t, err)
	assert.Equal(t, artist.StatusPending, artworks[0].Status)

	result, err := repository.AddArtwork(ctx, artist.NewArtwork{ArtistID: 10, Title: "Second"})
	require.NoError(t, err)
	assert.Equal(t, 41, result.Artwork.ID)

	created, err := repository.CreateArtist(ctx, artist.NewArtist{Name: "Ravi Menon"})
	require.NoError(t, err)
	assert.Equal(t, 11, created.ID)
}

/*
TestLatency_CancelledContext aborts during the simulated delay without
changing state.
*/
func TestLatency_CancelledContext(t *testing.T) {
	repository := artist.NewMemoryRepository(testSeed(), artist.WithLatency(100*time.Millisecond), artist.WithClock(clock))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	result, err := repository.AddArtwork(ctx, artist.NewArtwork{ArtistID: 2, Title: "Never stored"})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	artworks, err := repository.ListArtworks(context.Background())
	require.NoError(t, err)
	assert.Len(t, artworks, 5)

	lucas, err := repository.GetArtist(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, lucas.IsVerified)
}

/*
TestLatency_Elapses waits the configured delay before answering.
*/
func TestLatency_Elapses(t *testing.T) {
	repository := artist.NewMemoryRepository(testSeed(), artist.WithLatency(15*time.Millisecond))

	started := time.Now()
	_, err := repository.ListArtists(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(started), 15*time.Millisecond)
}

/*
TestAddArtwork_Concurrent checks that simultaneous uploads recount in turn:
exactly one of them observes the transition.
*/
func TestAddArtwork_Concurrent(t *testing.T) {
	repository := newTestRepository()
	ctx := context.Background()

	const uploads = 20

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		transitions int
	)

	for range uploads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := repository.AddArtwork(ctx, artist.NewArtwork{ArtistID: 3, Title: "Sketch"})
			if !assert.NoError(t, err) {
				return
			}
			if result.VerificationChanged {
				mu.Lock()
				transitions++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, transitions)

	aiko, err := repository.GetArtist(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, uploads, aiko.ArtworkCount)
	assert.True(t, aiko.IsVerified)

	owned, err := repository.ListArtworksByArtist(ctx, 3)
	require.NoError(t, err)
	ids := make(map[int]struct{}, len(owned))
	for _, w := range owned {
		ids[w.ID] = struct{}{}
	}
	assert.Len(t, ids, uploads, "artwork IDs are unique")
}
