package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/ruangpuisi/api/internal/common"
	"github.com/ruangpuisi/api/internal/server/services"
	"github.com/ruangpuisi/api/internal/validation"
)

// viewerID returns the authenticated user's id, or "" for guests.
func viewerID(r *http.Request) string {
	if u := UserFromContext(r.Context()); u != nil {
		return u.ID
	}
	return ""
}

func (s *Server) handleListPuisi(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pagination, ok := validation.ParsePagination(q.Get("page"), q.Get("limit"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Halaman tidak valid, limit harus antara 1 dan 100")
		return
	}

	result, err := s.puisi.List(r.Context(), services.ListOptions{
		Kategori:   q.Get("kategori"),
		Search:     q.Get("search"),
		SortBy:     q.Get("sortBy"),
		ViewerID:   viewerID(r),
		Pagination: pagination,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePopularPuisi(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := s.puisi.Popular(r.Context(), limit, viewerID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleMinePuisi(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pagination, ok := validation.ParsePagination(q.Get("page"), q.Get("limit"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Halaman tidak valid, limit harus antara 1 dan 100")
		return
	}

	user := UserFromContext(r.Context())
	result, err := s.puisi.Mine(r.Context(), user.ID, q.Get("status"), pagination)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetPuisi(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	p, err := s.puisi.Get(r.Context(), id, viewerID(r))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "Puisi tidak ditemukan")
			return
		}
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

type puisiRequest struct {
	Judul    string  `json:"judul"`
	Konten   string  `json:"konten"`
	Kategori string  `json:"kategori"`
	Musik    *string `json:"musik"`
	Status   string  `json:"status"`
}

func (s *Server) handleCreatePuisi(w http.ResponseWriter, r *http.Request) {
	var req puisiRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Format request tidak valid")
		return
	}

	user := UserFromContext(r.Context())
	created, err := s.puisi.Create(r.Context(), user, services.PuisiInput{
		Judul:    req.Judul,
		Konten:   req.Konten,
		Kategori: req.Kategori,
		Musik:    req.Musik,
		Status:   req.Status,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Puisi berhasil ditambahkan!",
		"puisi":   created,
	})
}

func (s *Server) handleUpdatePuisi(w http.ResponseWriter, r *http.Request) {
	var req puisiRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Format request tidak valid")
		return
	}

	user := UserFromContext(r.Context())
	updated, err := s.puisi.Update(r.Context(), user.ID, mux.Vars(r)["id"], services.PuisiInput{
		Judul:    req.Judul,
		Konten:   req.Konten,
		Kategori: req.Kategori,
		Musik:    req.Musik,
		Status:   req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "Puisi tidak ditemukan")
		case errors.Is(err, common.ErrorForbidden):
			writeError(w, http.StatusForbidden, "Anda tidak memiliki akses untuk mengubah puisi ini")
		default:
			s.respondError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Puisi berhasil diupdate",
		"puisi":   updated,
	})
}

func (s *Server) handleDeletePuisi(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user := UserFromContext(r.Context())
	if err := s.puisi.Delete(r.Context(), user.ID, id); err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "Puisi tidak ditemukan")
		case errors.Is(err, common.ErrorForbidden):
			writeError(w, http.StatusForbidden, "Anda tidak memiliki akses untuk menghapus puisi ini")
		default:
			s.respondError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Puisi berhasil dihapus",
		"deletedId": id,
	})
}

func (s *Server) handleLikePuisi(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	liked, jumlahSuka, err := s.puisi.ToggleLike(r.Context(), user.ID, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "Puisi tidak ditemukan")
			return
		}
		s.respondError(w, r, err)
		return
	}

	message := "Puisi disukai"
	if !liked {
		message = "Puisi tidak disukai"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    message,
		"liked":      liked,
		"jumlahSuka": jumlahSuka,
	})
}

func (s *Server) handleMediaUploadURL(w http.ResponseWriter, r *http.Request) {
	key, uploadURL, err := s.media.PresignUpload(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"key":       key,
		"uploadUrl": uploadURL,
	})
}
