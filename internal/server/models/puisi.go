package models

import "time"

// Puisi is a poem post. PenulisNama is denormalized from the owning user and
// kept in sync when the user renames themselves. JumlahSuka caches the
// cardinality of the liker set and is only ever written together with it.
type Puisi struct {
	ID            string    `json:"id"`
	Judul         string    `json:"judul"`
	Konten        string    `json:"konten"`
	PenulisID     string    `json:"penulis"`
	PenulisNama   string    `json:"penulisNama"`
	Kategori      string    `json:"kategori"`
	Musik         *string   `json:"musik"`
	JumlahSuka    int       `json:"jumlahSuka"`
	JumlahDilihat int       `json:"jumlahDilihat"`
	Status        string    `json:"status"`
	Tanggal       time.Time `json:"tanggal"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Disukai is a per-viewer flag, set only when the request carries an
	// authenticated identity. Not stored.
	Disukai bool `json:"disukai"`
}

const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)
