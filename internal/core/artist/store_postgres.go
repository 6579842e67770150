// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/artverify/internal/core/verification"
	"github.com/taibuivan/artverify/internal/platform/database/schema"
	"github.com/taibuivan/artverify/internal/platform/dberr"
	"github.com/taibuivan/artverify/pkg/pointer"
	"github.com/taibuivan/artverify/pkg/slug"
)

// PostgresRepository implements [Repository] on core.artist / core.artwork.
//
// Mutations run in a single transaction that locks the owning artist row
// (SELECT ... FOR UPDATE) before recounting, which serialises concurrent
// uploads for the same artist.
type PostgresRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

// NewPostgresRepository wires the repository to a pool. now stamps
// verification dates; pass time.Now in production.
func NewPostgresRepository(db *pgxpool.Pool, now func() time.Time) *PostgresRepository {
	return &PostgresRepository{db: db, now: now}
}

var (
	artistColumns  = strings.Join(schema.Artist.Columns(), ", ")
	artworkColumns = strings.Join(schema.Artwork.Columns(), ", ")
)

// # Queries

func (repository *PostgresRepository) GetArtist(context context.Context, id int) (*Artist, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		artistColumns, schema.Artist.Table, schema.Artist.ID,
	)

	found, err := scanArtist(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Artist", "get_artist")
	}
	return found, nil
}

func (repository *PostgresRepository) GetArtistByName(context context.Context, name string) (*Artist, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s LIMIT 1`,
		artistColumns, schema.Artist.Table, schema.Artist.Name, schema.Artist.ID,
	)

	found, err := scanArtist(repository.db.QueryRow(context, query, name))
	if err != nil {
		return nil, dberr.Wrap(err, "Artist", "get_artist_by_name")
	}
	return found, nil
}

func (repository *PostgresRepository) ListArtists(context context.Context) ([]Artist, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`,
		artistColumns, schema.Artist.Table, schema.Artist.ID,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Artist", "list_artists")
	}
	defer rows.Close()

	artists := make([]Artist, 0)
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Artist", "scan_artist")
		}
		artists = append(artists, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Artist", "list_artists")
	}
	return artists, nil
}

func (repository *PostgresRepository) ListArtworks(context context.Context) ([]Artwork, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`,
		artworkColumns, schema.Artwork.Table, schema.Artwork.ID,
	)
	return repository.queryArtworks(context, query)
}

func (repository *PostgresRepository) ListArtworksByArtist(context context.Context, artistID int) ([]Artwork, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		artworkColumns, schema.Artwork.Table, schema.Artwork.ArtistID, schema.Artwork.ID,
	)
	return repository.queryArtworks(context, query, artistID)
}

func (repository *PostgresRepository) VerificationStats(context context.Context) (*Stats, error) {
	query := fmt.Sprintf(`
		SELECT
			(SELECT count(*) FROM %[1]s),
			(SELECT count(*) FROM %[1]s WHERE %[2]s),
			(SELECT count(*) FROM %[3]s),
			(SELECT count(*) FROM %[3]s WHERE %[4]s = $1)
	`,
		schema.Artist.Table, schema.Artist.IsVerified,
		schema.Artwork.Table, schema.Artwork.Status,
	)

	var totalArtists, verifiedArtists, totalArtworks, approvedArtworks int
	err := repository.db.QueryRow(context, query, string(StatusApproved)).
		Scan(&totalArtists, &verifiedArtists, &totalArtworks, &approvedArtworks)
	if err != nil {
		return nil, dberr.Wrap(err, "Stats", "verification_stats")
	}

	return newStats(totalArtists, verifiedArtists, totalArtworks, approvedArtworks), nil
}

// # Mutations

func (repository *PostgresRepository) CreateArtist(context context.Context, input NewArtist) (*Artist, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`,
		schema.Artist.Table, schema.Artist.Name, schema.Artist.Slug, schema.Artist.Location,
		schema.Artist.Specialty, schema.Artist.JoinDate,
		artistColumns,
	)

	created, err := scanArtist(repository.db.QueryRow(context, query,
		strings.TrimSpace(input.Name), slug.From(input.Name), input.Location, input.Specialty, pointer.Fallback(input.JoinDate, repository.now()),
	))
	if err != nil {
		return nil, dberr.Wrap(err, "Artist", "create_artist")
	}
	return created, nil
}

func (repository *PostgresRepository) AddArtwork(context context.Context, input NewArtwork) (*MutationResult, error) {

	// Establish Transactional Boundary
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "Artwork", "begin_add_artwork_tx")
	}
	defer transaction.Rollback(context)

	// Step 1: Lock the owner first so concurrent uploads recount in turn
	owner, err := lockArtist(context, transaction, input.ArtistID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, dberr.Wrap(err, "Artist", "lock_artist")
	}

	// Step 2: Persist the pending artwork
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s
	`,
		schema.Artwork.Table, schema.Artwork.ArtistID, schema.Artwork.ArtistName, schema.Artwork.Title,
		schema.Artwork.Description, schema.Artwork.Medium, schema.Artwork.ImageURL,
		schema.Artwork.Status, schema.Artwork.CreatedAt,
		artworkColumns,
	)

	artwork, err := scanArtwork(transaction.QueryRow(context, insertQuery,
		input.ArtistID, input.Artist, input.Title, input.Description, input.Medium, input.ImageURL,
		string(StatusPending), repository.now(),
	))
	if err != nil {
		return nil, dberr.Wrap(err, "Artwork", "insert_artwork")
	}

	// Step 3: Recount and re-apply the rule
	result, err := repository.reverify(context, transaction, *artwork, owner)
	if err != nil {
		return nil, err
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "Artwork", "commit_add_artwork")
	}
	return result, nil
}

func (repository *PostgresRepository) ApproveArtwork(context context.Context, artworkID int) (*MutationResult, error) {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "Artwork", "begin_approve_artwork_tx")
	}
	defer transaction.Rollback(context)

	approveQuery := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 RETURNING %s`,
		schema.Artwork.Table, schema.Artwork.Status, schema.Artwork.ID, artworkColumns,
	)

	artwork, err := scanArtwork(transaction.QueryRow(context, approveQuery, artworkID, string(StatusApproved)))
	if err != nil {
		return nil, dberr.Wrap(err, "Artwork", "approve_artwork")
	}

	owner, err := lockArtist(context, transaction, artwork.ArtistID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, dberr.Wrap(err, "Artist", "lock_artist")
	}

	result, err := repository.reverify(context, transaction, *artwork, owner)
	if err != nil {
		return nil, err
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "Artwork", "commit_approve_artwork")
	}
	return result, nil
}

func (repository *PostgresRepository) SetVerification(context context.Context, artistID int, isVerified bool, artworkCount int) (*Artist, error) {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "Artist", "begin_set_verification_tx")
	}
	defer transaction.Rollback(context)

	current, err := lockArtist(context, transaction, artistID)
	if err != nil {
		return nil, dberr.Wrap(err, "Artist", "lock_artist")
	}

	updated := current.withState(verification.Override(current.state(), isVerified, artworkCount, repository.now()))
	if err := writeVerification(context, transaction, updated); err != nil {
		return nil, err
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "Artist", "commit_set_verification")
	}
	return &updated, nil
}

// # Internals

// reverify recounts owner's artworks inside transaction and persists the new
// verification state. A nil owner produces an artist-less result.
func (repository *PostgresRepository) reverify(ctx context.Context, transaction pgx.Tx, artwork Artwork, owner *Artist) (*MutationResult, error) {
	result := &MutationResult{Artwork: artwork}
	if owner == nil {
		return result, nil
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.Artwork.Table, schema.Artwork.ArtistID,
	)

	var count int
	if err := transaction.QueryRow(ctx, countQuery, owner.ID).Scan(&count); err != nil {
		return nil, dberr.Wrap(err, "Artwork", "count_artworks")
	}

	updated := owner.withState(verification.Apply(owner.state(), count, repository.now()))
	if err := writeVerification(ctx, transaction, updated); err != nil {
		return nil, err
	}

	result.Artist = &updated
	result.VerificationChanged = verification.Changed(owner.state(), updated.state())
	return result, nil
}

func (repository *PostgresRepository) queryArtworks(ctx context.Context, query string, args ...any) ([]Artwork, error) {
	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "Artwork", "list_artworks")
	}
	defer rows.Close()

	artworks := make([]Artwork, 0)
	for rows.Next() {
		w, err := scanArtwork(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Artwork", "scan_artwork")
		}
		artworks = append(artworks, *w)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Artwork", "list_artworks")
	}
	return artworks, nil
}

// lockArtist loads an artist row FOR UPDATE. It returns pgx.ErrNoRows
// unwrapped so callers can tell a missing owner from a failure.
func lockArtist(ctx context.Context, transaction pgx.Tx, id int) (*Artist, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		artistColumns, schema.Artist.Table, schema.Artist.ID,
	)

	return scanArtist(transaction.QueryRow(ctx, query, id))
}

func writeVerification(ctx context.Context, transaction pgx.Tx, a Artist) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		schema.Artist.Table, schema.Artist.ArtworkCount, schema.Artist.IsVerified,
		schema.Artist.VerificationDate, schema.Artist.ID,
	)

	_, err := transaction.Exec(ctx, query, a.ID, a.ArtworkCount, a.IsVerified, a.VerificationDate)
	return dberr.Wrap(err, "Artist", "update_verification")
}

func scanArtist(row pgx.Row) (*Artist, error) {
	a := &Artist{}
	err := row.Scan(
		&a.ID, &a.Name, &a.Slug, &a.Location, &a.Specialty, &a.JoinDate,
		&a.ArtworkCount, &a.IsVerified, &a.VerificationDate,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func scanArtwork(row pgx.Row) (*Artwork, error) {
	w := &Artwork{}
	var status string
	err := row.Scan(
		&w.ID, &w.ArtistID, &w.Artist, &w.Title, &w.Description,
		&w.Medium, &w.ImageURL, &status, &w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.Status = Status(status)
	return w, nil
}
