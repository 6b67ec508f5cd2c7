package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ruangpuisi/api/internal/common"
	"github.com/ruangpuisi/api/internal/dbx"
	"github.com/ruangpuisi/api/internal/server/models"
	"github.com/ruangpuisi/api/internal/server/repositories/puisi"
	"github.com/ruangpuisi/api/internal/server/repositories/repomanager"
	"github.com/ruangpuisi/api/internal/server/telegram"
	"github.com/ruangpuisi/api/internal/validation"
)

// PuisiInput carries the client-supplied fields of a poem. For updates,
// empty fields keep the stored value (a nil Musik keeps it too; clearing the
// media URL goes through an explicit empty string).
type PuisiInput struct {
	Judul    string
	Konten   string
	Kategori string
	Musik    *string
	Status   string
}

// ListOptions narrows the public listing.
type ListOptions struct {
	Kategori string
	Search   string
	SortBy   string
	ViewerID string
	Pagination validation.Pagination
}

// ListResult is one page of poems plus paging bookkeeping.
type ListResult struct {
	Puisi       []*models.Puisi `json:"puisi"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
	Total       int             `json:"total"`
	HasNext     bool            `json:"hasNext"`
	HasPrev     bool            `json:"hasPrev"`

	Statistics *puisi.Stats `json:"statistics,omitempty"`
}

// PuisiService implements the poem operations: listing, reads with view
// counting, owner-gated mutations and the like toggle.
type PuisiService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    *telegram.Notifier
}

func NewPuisiService(db *sql.DB, m repomanager.RepositoryManager, notifier *telegram.Notifier) *PuisiService {
	return &PuisiService{db: db, repomanager: m, notifier: notifier}
}

// validID filters obviously malformed ids before they reach the store, so a
// garbage path parameter reads as "not found" instead of a driver error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func pageCount(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func (s *PuisiService) newListResult(items []*models.Puisi, total int, p validation.Pagination) *ListResult {
	totalPages := pageCount(total, p.Limit)
	return &ListResult{
		Puisi:       items,
		TotalPages:  totalPages,
		CurrentPage: p.Page,
		Total:       total,
		HasNext:     p.Page < totalPages,
		HasPrev:     p.Page > 1,
	}
}

// List returns a page of published poems.
func (s *PuisiService) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	repo := s.repomanager.Puisi(s.db)

	items, total, err := repo.List(ctx, puisi.ListFilter{
		Status:     models.StatusPublished,
		Kategori:   opts.Kategori,
		Search:     opts.Search,
		SortBy:     opts.SortBy,
		ViewerID:   opts.ViewerID,
		Pagination: opts.Pagination,
	})
	if err != nil {
		return nil, common.ErrorInternal
	}

	return s.newListResult(items, total, opts.Pagination), nil
}

// Popular returns the most-liked published poems.
func (s *PuisiService) Popular(ctx context.Context, limit int, viewerID string) ([]*models.Puisi, error) {
	if limit < 1 || limit > validation.MaxLimit {
		limit = 5
	}

	repo := s.repomanager.Puisi(s.db)
	items, _, err := repo.List(ctx, puisi.ListFilter{
		Status:     models.StatusPublished,
		SortBy:     "popular",
		ViewerID:   viewerID,
		Pagination: validation.Pagination{Page: 1, Limit: limit},
	})
	if err != nil {
		return nil, common.ErrorInternal
	}
	return items, nil
}

// Mine returns a page of the caller's own poems, drafts included, plus the
// caller's post statistics.
func (s *PuisiService) Mine(ctx context.Context, userID, status string, p validation.Pagination) (*ListResult, error) {
	repo := s.repomanager.Puisi(s.db)

	if status == "all" {
		status = ""
	}
	items, total, err := repo.List(ctx, puisi.ListFilter{
		Status:     status,
		PenulisID:  userID,
		ViewerID:   userID,
		Pagination: p,
	})
	if err != nil {
		return nil, common.ErrorInternal
	}

	stats, err := repo.StatsByPenulis(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	result := s.newListResult(items, total, p)
	result.Statistics = stats
	return result, nil
}

// Get returns one poem by id and bumps its view counter. The increment is a
// single store-side statement, so concurrent reads cannot lose updates.
func (s *PuisiService) Get(ctx context.Context, id, viewerID string) (*models.Puisi, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	repo := s.repomanager.Puisi(s.db)
	p, err := repo.GetByID(ctx, id, viewerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	if err := repo.IncrementViews(ctx, id); err != nil {
		return nil, common.ErrorInternal
	}

	return p, nil
}

func validatePuisiFields(judul, konten, kategori string) error {
	if strings.TrimSpace(judul) == "" {
		return common.NewValidationError("Judul puisi harus diisi")
	}
	if len(judul) > validation.MaxJudulLength {
		return common.NewValidationError("Judul puisi maksimal 100 karakter")
	}
	if strings.TrimSpace(konten) == "" {
		return common.NewValidationError("Konten puisi harus diisi")
	}
	if len(konten) > validation.MaxKontenLength {
		return common.NewValidationError("Konten puisi maksimal 5000 karakter")
	}
	if !validation.ValidKategori(kategori) {
		return common.NewValidationError("Kategori puisi tidak valid")
	}
	return nil
}

// Create stores a new poem owned by penulis and pushes a notification when
// it is published right away.
func (s *PuisiService) Create(ctx context.Context, penulis *models.User, in PuisiInput) (*models.Puisi, error) {
	if err := validatePuisiFields(in.Judul, in.Konten, in.Kategori); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.StatusPublished
	}
	if status != models.StatusPublished && status != models.StatusDraft {
		return nil, common.NewValidationError("Status puisi tidak valid")
	}
	if in.Musik != nil && *in.Musik != "" && !validation.ValidURL(*in.Musik) {
		return nil, common.NewValidationError("URL musik tidak valid")
	}

	p := &models.Puisi{
		Judul:       validation.SanitizeText(in.Judul),
		Konten:      validation.SanitizeText(in.Konten),
		PenulisID:   penulis.ID,
		PenulisNama: penulis.Nama,
		Kategori:    in.Kategori,
		Musik:       in.Musik,
		Status:      status,
	}

	created, err := s.repomanager.Puisi(s.db).Create(ctx, p)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if created.Status == models.StatusPublished {
		s.notifier.SendAsync(telegram.NewPuisiMessage(created.Judul, created.Konten, created.Kategori, created.PenulisNama))
	}

	return created, nil
}

// loadOwned fetches the poem and enforces ownership.
func (s *PuisiService) loadOwned(ctx context.Context, repo puisi.Repository, userID, id string) (*models.Puisi, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	p, err := repo.GetByID(ctx, id, "")
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	if p.PenulisID != userID {
		return nil, common.ErrorForbidden
	}
	return p, nil
}

// Update edits an owned poem. Empty input fields keep the stored values,
// mirroring the partial-update behavior of the public API.
func (s *PuisiService) Update(ctx context.Context, userID, id string, in PuisiInput) (*models.Puisi, error) {
	repo := s.repomanager.Puisi(s.db)

	p, err := s.loadOwned(ctx, repo, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Judul != "" {
		if len(in.Judul) > validation.MaxJudulLength {
			return nil, common.NewValidationError("Judul puisi maksimal 100 karakter")
		}
		p.Judul = validation.SanitizeText(in.Judul)
	}
	if in.Konten != "" {
		if len(in.Konten) > validation.MaxKontenLength {
			return nil, common.NewValidationError("Konten puisi maksimal 5000 karakter")
		}
		p.Konten = validation.SanitizeText(in.Konten)
	}
	if in.Kategori != "" {
		if !validation.ValidKategori(in.Kategori) {
			return nil, common.NewValidationError("Kategori puisi tidak valid")
		}
		p.Kategori = in.Kategori
	}
	if in.Musik != nil {
		if *in.Musik != "" && !validation.ValidURL(*in.Musik) {
			return nil, common.NewValidationError("URL musik tidak valid")
		}
		p.Musik = in.Musik
	}
	if in.Status != "" {
		if in.Status != models.StatusPublished && in.Status != models.StatusDraft {
			return nil, common.NewValidationError("Status puisi tidak valid")
		}
		p.Status = in.Status
	}

	updated, err := repo.Update(ctx, p)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return updated, nil
}

// Delete removes an owned poem.
func (s *PuisiService) Delete(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Puisi(s.db)

	if _, err := s.loadOwned(ctx, repo, userID, id); err != nil {
		return err
	}

	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}
	return nil
}

// ToggleLike flips userID's membership in the poem's liker set. The
// membership change and the recount of the cached total run in one
// transaction; the recount locks the poem row before rereading the set, so
// concurrent toggles serialize there and the cache always lands on the
// set's cardinality. A poem deleted mid-toggle reads as not found.
func (s *PuisiService) ToggleLike(ctx context.Context, userID, id string) (bool, int, error) {
	if !validID(id) {
		return false, 0, common.ErrorNotFound
	}

	if _, err := s.repomanager.Puisi(s.db).GetByID(ctx, id, ""); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, 0, err
		}
		return false, 0, common.ErrorInternal
	}

	var liked bool
	var total int
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Puisi(tx)

		removed, err := repo.DeleteSuka(ctx, id, userID)
		if err != nil {
			return err
		}
		if !removed {
			if _, err := repo.InsertSuka(ctx, id, userID); err != nil {
				return err
			}
			liked = true
		}

		total, err = repo.RecountSuka(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, 0, err
		}
		return false, 0, common.ErrorInternal
	}

	return liked, total, nil
}
