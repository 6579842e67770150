// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the artist store so queries
// never spell identifiers inline.
package schema

// ArtistTable represents the 'core.artist' table
type ArtistTable struct {
	Table            string
	ID               string
	Name             string
	Slug             string
	Location         string
	Specialty        string
	JoinDate         string
	ArtworkCount     string
	IsVerified       string
	VerificationDate string
}

// Artist is the schema definition for core.artist
var Artist = ArtistTable{
	Table:            "core.artist",
	ID:               "id",
	Name:             "name",
	Slug:             "slug",
	Location:         "location",
	Specialty:        "specialty",
	JoinDate:         "joindate",
	ArtworkCount:     "artworkcount",
	IsVerified:       "isverified",
	VerificationDate: "verificationdate",
}

// Columns returns every column in SELECT order.
func (t ArtistTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.Location, t.Specialty, t.JoinDate,
		t.ArtworkCount, t.IsVerified, t.VerificationDate,
	}
}
