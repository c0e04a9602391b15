// package models defines the data model for the playlist catalog
package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// User is a catalog account. Fields are listed alphabetically so encoded keys come out sorted.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Song is a catalog track.
type Song struct {
	Artist string `json:"artist"`
	ID     string `json:"id"`
	Title  string `json:"title"`
}

// Playlist references one [User] and one or more [Song] values by id.
type Playlist struct {
	ID      string   `json:"id"`
	SongIDs []string `json:"song_ids"`
	UserID  string   `json:"user_id"`
}

// Clone returns a copy whose SongIDs do not alias p's.
func (p Playlist) Clone() Playlist {
	p.SongIDs = append([]string(nil), p.SongIDs...)
	return p
}

// Document is the bulk-load input and the snapshot output.
type Document struct {
	Playlists []Playlist `json:"playlists"`
	Songs     []Song     `json:"songs"`
	Users     []User     `json:"users"`
}

// Snapshot is a [Document] produced from catalog state, each collection sorted by id.
type Snapshot = Document
