// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ArtworkTable represents the 'core.artwork' table
type ArtworkTable struct {
	Table       string
	ID          string
	ArtistID    string
	ArtistName  string
	Title       string
	Description string
	Medium      string
	ImageURL    string
	Status      string
	CreatedAt   string
}

// Artwork is the schema definition for core.artwork
var Artwork = ArtworkTable{
	Table:       "core.artwork",
	ID:          "id",
	ArtistID:    "artistid",
	ArtistName:  "artistname",
	Title:       "title",
	Description: "description",
	Medium:      "medium",
	ImageURL:    "imageurl",
	Status:      "status",
	CreatedAt:   "createdat",
}

// Columns returns every column in SELECT order.
func (t ArtworkTable) Columns() []string {
	return []string{
		t.ID, t.ArtistID, t.ArtistName, t.Title, t.Description,
		t.Medium, t.ImageURL, t.Status, t.CreatedAt,
	}
}
