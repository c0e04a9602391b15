package catalog

import (
	"io"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/schema"
)

// ParseDocument decodes a bulk-load document from r and checks it against [schema.Catalog].
func ParseDocument(r io.Reader) (*models.Document, error) {
	v, err := schema.Decode(r)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(v, schema.Catalog); err != nil {
		return nil, err
	}
	return documentFrom(v), nil
}

// Open parses a bulk-load document and loads it into a new catalog.
//
// On any failure no catalog is returned.
func Open(r io.Reader) (*Catalog, error) {
	doc, err := ParseDocument(r)
	if err != nil {
		return nil, err
	}

	c := New()
	if err := c.Load(doc); err != nil {
		return nil, err
	}
	return c, nil
}

// documentFrom converts a value that already passed [schema.Catalog]; fields outside the schema are dropped.
func documentFrom(v any) *models.Document {
	obj := v.(map[string]any)
	doc := &models.Document{}

	for _, item := range obj["users"].([]any) {
		m := item.(map[string]any)
		doc.Users = append(doc.Users, models.User{
			ID:   m["id"].(string),
			Name: m["name"].(string),
		})
	}

	for _, item := range obj["songs"].([]any) {
		m := item.(map[string]any)
		doc.Songs = append(doc.Songs, models.Song{
			ID:     m["id"].(string),
			Artist: m["artist"].(string),
			Title:  m["title"].(string),
		})
	}

	for _, item := range obj["playlists"].([]any) {
		m := item.(map[string]any)
		doc.Playlists = append(doc.Playlists, models.Playlist{
			ID:      m["id"].(string),
			UserID:  m["user_id"].(string),
			SongIDs: StringsOf(m["song_ids"]),
		})
	}

	return doc
}

// StringsOf converts a schema-checked array of strings.
func StringsOf(v any) []string {
	items := v.([]any)
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.(string)
	}
	return out
}
