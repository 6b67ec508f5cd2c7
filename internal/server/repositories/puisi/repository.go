package puisi

import (
	"context"

	"github.com/ruangpuisi/api/internal/server/models"
	"github.com/ruangpuisi/api/internal/validation"
)

// ListFilter narrows and orders a puisi listing. Empty fields are skipped.
type ListFilter struct {
	Status    string // "published", "draft" or "" for any
	Kategori  string // "" or "all" matches every category
	Search    string // substring match on judul/konten
	PenulisID string // restrict to one author
	SortBy    string // "recent" (default), "popular", "oldest"
	ViewerID  string // when set, Disukai is computed for this user
	Pagination validation.Pagination
}

// Stats summarizes one author's posts.
type Stats struct {
	TotalPublished int `json:"totalPublished"`
	TotalDrafts    int `json:"totalDrafts"`
	TotalLikes     int `json:"totalLikes"`
}

type Repository interface {
	Create(ctx context.Context, p *models.Puisi) (*models.Puisi, error)

	// GetByID returns the post or common.ErrorNotFound. When viewerID is
	// non-empty the Disukai flag reflects that user's like.
	GetByID(ctx context.Context, id, viewerID string) (*models.Puisi, error)

	// List returns one page of posts plus the total match count.
	List(ctx context.Context, f ListFilter) ([]*models.Puisi, int, error)

	Update(ctx context.Context, p *models.Puisi) (*models.Puisi, error)
	Delete(ctx context.Context, id string) error

	// IncrementViews bumps jumlah_dilihat by one in a single statement.
	IncrementViews(ctx context.Context, id string) error

	// InsertSuka adds userID to the liker set; it reports false when the
	// membership already existed and common.ErrorNotFound when the post
	// is gone.
	InsertSuka(ctx context.Context, puisiID, userID string) (bool, error)

	// DeleteSuka removes userID from the liker set; it reports false when
	// there was no membership to remove.
	DeleteSuka(ctx context.Context, puisiID, userID string) (bool, error)

	// RecountSuka locks the post row, rewrites the cached like count
	// from the liker set's cardinality and returns the new value.
	// Concurrent toggles of the same post serialize on the lock.
	RecountSuka(ctx context.Context, puisiID string) (int, error)

	// RemoveSukaByUser drops every like placed by userID and repairs the
	// cached counts of the affected posts.
	RemoveSukaByUser(ctx context.Context, userID string) error

	// DeleteByPenulis removes all posts owned by userID.
	DeleteByPenulis(ctx context.Context, userID string) error

	// UpdatePenulisNama rewrites the denormalized author name.
	UpdatePenulisNama(ctx context.Context, userID, nama string) error

	StatsByPenulis(ctx context.Context, userID string) (*Stats, error)
}
