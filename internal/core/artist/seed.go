// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/artverify/pkg/slug"
)

// Seed is the initial content of a [MemoryRepository].
type Seed struct {
	Artists  []Artist
	Artworks []Artwork
}

type seedFile struct {
	Artists []struct {
		ID               int        `yaml:"id"`
		Name             string     `yaml:"name"`
		Location         string     `yaml:"location"`
		Specialty        string     `yaml:"specialty"`
		JoinDate         time.Time  `yaml:"join_date"`
		ArtworkCount     int        `yaml:"artwork_count"`
		IsVerified       bool       `yaml:"is_verified"`
		VerificationDate *time.Time `yaml:"verification_date"`
	} `yaml:"artists"`

	Artworks []struct {
		ID          int       `yaml:"id"`
		ArtistID    int       `yaml:"artist_id"`
		Artist      string    `yaml:"artist"`
		Title       string    `yaml:"title"`
		Description string    `yaml:"description"`
		Medium      string    `yaml:"medium"`
		ImageURL    string    `yaml:"image_url"`
		Status      Status    `yaml:"status"`
		CreatedAt   time.Time `yaml:"created_at"`
	} `yaml:"artworks"`
}

// LoadSeed reads a YAML fixture of demo artists and artworks.
//
// An empty path yields an empty seed. Artist IDs, artwork IDs and artist
// slugs must be unique; artwork status defaults to pending.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return Seed{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("seed: read %s: %w", path, err)
	}

	return ParseSeed(raw)
}

// ParseSeed decodes and validates a YAML fixture.
func ParseSeed(raw []byte) (Seed, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Seed{}, fmt.Errorf("seed: decode: %w", err)
	}

	seed := Seed{
		Artists:  make([]Artist, 0, len(file.Artists)),
		Artworks: make([]Artwork, 0, len(file.Artworks)),
	}

	artistIDs := make(map[int]struct{}, len(file.Artists))
	slugs := make(map[string]int, len(file.Artists))

	for _, entry := range file.Artists {
		if entry.ID <= 0 {
			return Seed{}, fmt.Errorf("seed: artist %q has no positive id", entry.Name)
		}
		if _, dup := artistIDs[entry.ID]; dup {
			return Seed{}, fmt.Errorf("seed: duplicate artist id %d", entry.ID)
		}

		key := slug.From(entry.Name)
		if key == "" {
			return Seed{}, fmt.Errorf("seed: artist %d has an empty name", entry.ID)
		}
		if other, dup := slugs[key]; dup {
			return Seed{}, fmt.Errorf("seed: artists %d and %d share the name key %q", other, entry.ID, key)
		}

		artistIDs[entry.ID] = struct{}{}
		slugs[key] = entry.ID

		seed.Artists = append(seed.Artists, Artist{
			ID:               entry.ID,
			Name:             entry.Name,
			Slug:             key,
			Location:         entry.Location,
			Specialty:        entry.Specialty,
			JoinDate:         entry.JoinDate,
			ArtworkCount:     entry.ArtworkCount,
			IsVerified:       entry.IsVerified,
			VerificationDate: entry.VerificationDate,
		})
	}

	artworkIDs := make(map[int]struct{}, len(file.Artworks))
	for _, entry := range file.Artworks {
		if entry.ID <= 0 {
			return Seed{}, fmt.Errorf("seed: artwork %q has no positive id", entry.Title)
		}
		if _, dup := artworkIDs[entry.ID]; dup {
			return Seed{}, fmt.Errorf("seed: duplicate artwork id %d", entry.ID)
		}
		artworkIDs[entry.ID] = struct{}{}

		status := entry.Status
		switch status {
		case "":
			status = StatusPending
		case StatusPending, StatusApproved:
		default:
			return Seed{}, fmt.Errorf("seed: artwork %d has unknown status %q", entry.ID, status)
		}

		seed.Artworks = append(seed.Artworks, Artwork{
			ID:          entry.ID,
			ArtistID:    entry.ArtistID,
			Artist:      entry.Artist,
			Title:       entry.Title,
			Description: entry.Description,
			Medium:      entry.Medium,
			ImageURL:    entry.ImageURL,
			Status:      status,
			CreatedAt:   entry.CreatedAt,
		})
	}

	return seed, nil
}
