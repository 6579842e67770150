// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/artverify/internal/core/verification"
	"github.com/taibuivan/artverify/internal/platform/apperr"
	"github.com/taibuivan/artverify/pkg/pointer"
	"github.com/taibuivan/artverify/pkg/slice"
	"github.com/taibuivan/artverify/pkg/slug"
)

// MemoryRepository is the in-process [Repository] used by the demo and tests.
//
// # Concurrency
//
// A single RWMutex guards both collections: list/get calls share the read
// lock, mutations hold the write lock for their whole read-modify-write.
// The simulated latency is spent before the lock is taken, so a caller whose
// context ends during the delay leaves the store untouched.
type MemoryRepository struct {
	mu       sync.RWMutex
	artists  []Artist
	artworks []Artwork

	nextArtistID  int
	nextArtworkID int

	latency time.Duration
	now     func() time.Time
}

// MemoryOption configures a [MemoryRepository].
type MemoryOption func(*MemoryRepository)

// WithLatency makes every call wait d before touching state, mimicking a
// remote database round trip.
func WithLatency(d time.Duration) MemoryOption {
	return func(repository *MemoryRepository) {
		repository.latency = d
	}
}

// WithClock replaces time.Now for verification dates and artwork timestamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(repository *MemoryRepository) {
		repository.now = now
	}
}

// NewMemoryRepository builds a store pre-populated with seed.
//
// ID generators start at max(existing ID) + 1.
func NewMemoryRepository(seed Seed, options ...MemoryOption) *MemoryRepository {
	repository := &MemoryRepository{
		artists:       make([]Artist, 0, len(seed.Artists)),
		artworks:      make([]Artwork, 0, len(seed.Artworks)),
		nextArtistID:  1,
		nextArtworkID: 1,
		now:           time.Now,
	}

	for _, option := range options {
		option(repository)
	}

	for _, a := range seed.Artists {
		stored := a.clone()
		if stored.Slug == "" {
			stored.Slug = slug.From(stored.Name)
		}
		repository.artists = append(repository.artists, stored)
		repository.nextArtistID = max(repository.nextArtistID, stored.ID+1)
	}

	for _, w := range seed.Artworks {
		if w.Status == "" {
			w.Status = StatusPending
		}
		repository.artworks = append(repository.artworks, w)
		repository.nextArtworkID = max(repository.nextArtworkID, w.ID+1)
	}

	return repository
}

// # Queries

func (repository *MemoryRepository) GetArtist(context context.Context, id int) (*Artist, error) {
	if err := repository.wait(context); err != nil {
		return nil, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	index := repository.artistIndex(id)
	if index < 0 {
		return nil, apperr.NotFound("Artist")
	}

	found := repository.artists[index].clone()
	return &found, nil
}

func (repository *MemoryRepository) GetArtistByName(context context.Context, name string) (*Artist, error) {
	if err := repository.wait(context); err != nil {
		return nil, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	for _, a := range repository.artists {
		if a.Name == name {
			found := a.clone()
			return &found, nil
		}
	}

	return nil, apperr.NotFound("Artist")
}

func (repository *MemoryRepository) ListArtists(context context.Context) ([]Artist, error) {
	if err := repository.wait(context); err != nil {
		return nil, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	return slice.Map(repository.artists, Artist.clone), nil
}

func (repository *MemoryRepository) ListArtworks(context context.Context) ([]Artwork, error) {
	if err := repository.wait(context); err != nil {
		return nil, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	// Artwork holds no references, a shallow copy is a full snapshot
	return append(make([]Artwork, 0, len(repository.artworks)), repository.artworks...), nil
}

func (repository *MemoryRepository) ListArtworksByArtist(context context.Context, artistID int) ([]Artwork, error) {
	if err := repository.wait(context); err != nil {
		return nil, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	return slice.Filter(repository.artworks, ownedBy(artistID)), nil
}

func (repository *MemoryRepository) VerificationStats(context context.Context) (*Stats, error) {
	if err := repository.wait(context); err != nil {
		return nil, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	verified := slice.Count(repository.artists, func(a Artist) bool { return a.IsVerified })
	approved := slice.Count(repository.artworks, func(w Artwork) bool { return w.Status == StatusApproved })

	return newStats(len(repository.artists), verified, len(repository.artworks), approved), nil
}

// # Mutations

func (repository *MemoryRepository) CreateArtist(context context.Context, input NewArtist) (*Artist, error) {
	if err := repository.wait(context); err != nil {
		return nil, err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	key := slug.From(input.Name)
	for _, a := range repository.artists {
		if a.Slug == key {
			return nil, apperr.Conflict("Artist already exists")
		}
	}

	created := Artist{
		ID:        repository.nextArtistID,
		Name:      strings.TrimSpace(input.Name),
		Slug:      key,
		Location:  input.Location,
		Specialty: input.Specialty,
		JoinDate:  pointer.Fallback(input.JoinDate, repository.now()),
	}

	repository.nextArtistID++
	repository.artists = append(repository.artists, created)

	result := created.clone()
	return &result, nil
}

func (repository *MemoryRepository) AddArtwork(context context.Context, input NewArtwork) (*MutationResult, error) {
	if err := repository.wait(context); err != nil {
		return nil, err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	artwork := Artwork{
		ID:          repository.nextArtworkID,
		ArtistID:    input.ArtistID,
		Artist:      input.Artist,
		Title:       input.Title,
		Description: input.Description,
		Medium:      input.Medium,
		ImageURL:    input.ImageURL,
		Status:      StatusPending,
		CreatedAt:   repository.now(),
	}

	repository.nextArtworkID++
	repository.artworks = append(repository.artworks, artwork)

	return repository.reverify(artwork), nil
}

func (repository *MemoryRepository) ApproveArtwork(context context.Context, artworkID int) (*MutationResult, error) {
	if err := repository.wait(context); err != nil {
		return nil, err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	index := -1
	for i, w := range repository.artworks {
		if w.ID == artworkID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, apperr.NotFound("Artwork")
	}

	repository.artworks[index].Status = StatusApproved

	return repository.reverify(repository.artworks[index]), nil
}

func (repository *MemoryRepository) SetVerification(context context.Context, artistID int, isVerified bool, artworkCount int) (*Artist, error) {
	if err := repository.wait(context); err != nil {
		return nil, err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	index := repository.artistIndex(artistID)
	if index < 0 {
		return nil, apperr.NotFound("Artist")
	}

	current := repository.artists[index]
	updated := current.withState(verification.Override(current.state(), isVerified, artworkCount, repository.now()))
	repository.artists[index] = updated

	result := updated.clone()
	return &result, nil
}

// # Internals

// reverify recounts the owner of artwork and commits the new verification
// state. Callers must hold the write lock.
func (repository *MemoryRepository) reverify(artwork Artwork) *MutationResult {
	result := &MutationResult{Artwork: artwork}

	index := repository.artistIndex(artwork.ArtistID)
	if index < 0 {
		return result
	}

	before := repository.artists[index]
	count := slice.Count(repository.artworks, ownedBy(before.ID))
	after := before.withState(verification.Apply(before.state(), count, repository.now()))
	repository.artists[index] = after

	owner := after.clone()
	result.Artist = &owner
	result.VerificationChanged = verification.Changed(before.state(), after.state())
	return result
}

func (repository *MemoryRepository) artistIndex(id int) int {
	for i, a := range repository.artists {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// wait spends the simulated latency, aborting early if ctx ends.
func (repository *MemoryRepository) wait(ctx context.Context) error {
	if repository.latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(repository.latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func ownedBy(artistID int) func(Artwork) bool {
	return func(w Artwork) bool { return w.ArtistID == artistID }
}
