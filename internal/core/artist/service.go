// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/artverify/internal/platform/ctxutil"
	"github.com/taibuivan/artverify/internal/platform/validate"
	"github.com/taibuivan/artverify/pkg/slug"
)

// VerificationInput is the body of an administrative verification override.
// Both fields are pointers so an omitted value can be told apart from false/0.
type VerificationInput struct {
	IsVerified   *bool `json:"is_verified"`
	ArtworkCount *int  `json:"artwork_count"`
}

// Service is the entry point for artist and artwork operations.
//
// It validates input, delegates state changes to the [Repository] and keeps
// the [StatsCache] coherent by dropping it after every successful mutation.
type Service struct {
	repo   Repository
	cache  StatsCache
	logger *slog.Logger
}

// NewService wires a Service. A nil cache disables stats caching.
func NewService(repo Repository, cache StatsCache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NoopStatsCache{}
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// # Artists

func (service *Service) ListArtists(context context.Context) ([]Artist, error) {
	return service.repo.ListArtists(context)
}

func (service *Service) GetArtist(context context.Context, id int) (*Artist, error) {
	return service.repo.GetArtist(context, id)
}

func (service *Service) GetArtistByName(context context.Context, name string) (*Artist, error) {
	if err := (&validate.Validator{}).Required(FieldName, name).Err(); err != nil {
		return nil, err
	}
	return service.repo.GetArtistByName(context, name)
}

func (service *Service) CreateArtist(context context.Context, input NewArtist) (*Artist, error) {
	validator := &validate.Validator{}

	validator.Required(FieldName, input.Name)
	if strings.TrimSpace(input.Name) != "" {
		validator.Custom(FieldName, slug.From(input.Name) == "", "Must contain at least one letter or digit")
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	created, err := service.repo.CreateArtist(context, input)
	if err != nil {
		return nil, err
	}

	service.log(context).Info("artist_created",
		slog.Int("artist_id", created.ID),
		slog.String("slug", created.Slug),
	)
	service.invalidate(context)
	return created, nil
}

/*
SetVerification applies the administrative override.

Both fields of input are required. The eligibility threshold is not consulted.

Returns:
  - *Artist: The updated artist
  - error: VALIDATION_ERROR for missing fields, NOT_FOUND for an unknown artist
*/
func (service *Service) SetVerification(context context.Context, artistID int, input VerificationInput) (*Artist, error) {
	validator := &validate.Validator{}

	validate.Present(validator, FieldIsVerified, input.IsVerified)
	validate.Present(validator, FieldArtworkCount, input.ArtworkCount)
	if input.ArtworkCount != nil {
		validator.NonNegative(FieldArtworkCount, *input.ArtworkCount)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	updated, err := service.repo.SetVerification(context, artistID, *input.IsVerified, *input.ArtworkCount)
	if err != nil {
		return nil, err
	}

	service.log(context).Warn("artist_verification_overridden",
		slog.Int("artist_id", updated.ID),
		slog.Bool("is_verified", updated.IsVerified),
		slog.Int("artwork_count", updated.ArtworkCount),
	)
	service.invalidate(context)
	return updated, nil
}

// # Artworks

func (service *Service) ListArtworks(context context.Context) ([]Artwork, error) {
	return service.repo.ListArtworks(context)
}

func (service *Service) ListArtworksByArtist(context context.Context, artistID int) ([]Artwork, error) {
	return service.repo.ListArtworksByArtist(context, artistID)
}

/*
AddArtwork uploads a pending artwork and re-evaluates its owner's badge.

An unknown artist ID is accepted; the result then carries no artist.

Returns:
  - *MutationResult: Stored artwork, owner snapshot and transition flag
  - error: VALIDATION_ERROR when title or artist_id is missing
*/
func (service *Service) AddArtwork(context context.Context, input NewArtwork) (*MutationResult, error) {
	validator := &validate.Validator{}

	validator.Required(FieldTitle, input.Title)
	validator.Positive(FieldArtistID, input.ArtistID)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	result, err := service.repo.AddArtwork(context, input)
	if err != nil {
		return nil, err
	}

	service.log(context).Info("artwork_added",
		slog.Int("artwork_id", result.Artwork.ID),
		slog.Int("artist_id", result.Artwork.ArtistID),
		slog.Bool("artist_known", result.Artist != nil),
	)
	service.logTransition(context, result)
	service.invalidate(context)
	return result, nil
}

func (service *Service) ApproveArtwork(context context.Context, artworkID int) (*MutationResult, error) {
	result, err := service.repo.ApproveArtwork(context, artworkID)
	if err != nil {
		return nil, err
	}

	service.log(context).Info("artwork_approved",
		slog.Int("artwork_id", result.Artwork.ID),
		slog.Int("artist_id", result.Artwork.ArtistID),
	)
	service.logTransition(context, result)
	service.invalidate(context)
	return result, nil
}

// # Stats

/*
VerificationStats returns the dashboard counters, served from the cache when
possible. Cache failures are logged and fall through to the repository.

The cache generation is read before the repository, so a result computed
while a mutation commits is tagged with the older generation and never served.
*/
func (service *Service) VerificationStats(context context.Context) (*Stats, error) {
	cached, generation, ok, err := service.cache.Get(context)
	if err != nil {
		service.log(context).Warn("stats_cache_read_failed", slog.Any("error", err))
	}
	if ok {
		return cached, nil
	}

	stats, repoErr := service.repo.VerificationStats(context)
	if repoErr != nil {
		return nil, repoErr
	}

	// Without a known generation the result cannot be tagged safely.
	if err != nil {
		return stats, nil
	}

	if err := service.cache.Set(context, generation, stats); err != nil {
		service.log(context).Warn("stats_cache_write_failed", slog.Any("error", err))
	}
	return stats, nil
}

// # Internals

func (service *Service) logTransition(ctx context.Context, result *MutationResult) {
	if !result.VerificationChanged || result.Artist == nil {
		return
	}

	event := "artist_unverified"
	if result.Artist.IsVerified {
		event = "artist_verified"
	}

	service.log(ctx).Info(event,
		slog.Int("artist_id", result.Artist.ID),
		slog.Int("artwork_count", result.Artist.ArtworkCount),
	)
}

func (service *Service) invalidate(ctx context.Context) {
	if err := service.cache.Invalidate(ctx); err != nil {
		service.log(ctx).Warn("stats_cache_invalidate_failed", slog.Any("error", err))
	}
}

func (service *Service) log(ctx context.Context) *slog.Logger {
	return ctxutil.LoggerOr(ctx, service.logger)
}
