package httpapi

import (
	"net/http"

	"github.com/ruangpuisi/api/internal/server/models"
	"github.com/ruangpuisi/api/internal/server/telegram"
)

type registerRequest struct {
	Nama     string `json:"nama"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userSummary struct {
	ID    string `json:"id"`
	Nama  string `json:"nama"`
	Email string `json:"email"`
}

func summarize(u *models.User) userSummary {
	return userSummary{ID: u.ID, Nama: u.Nama, Email: u.Email}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Format request tidak valid")
		return
	}

	meta := telegram.RequestMeta{IP: clientIP(r), UserAgent: r.UserAgent()}

	user, err := s.users.Register(r.Context(), req.Nama, req.Email, req.Password, meta)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registrasi berhasil! Silakan login.",
		"user":    summarize(user),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Format request tidak valid")
		return
	}

	token, user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  summarize(user),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

type updateProfileRequest struct {
	Nama           string  `json:"nama"`
	Bio            string  `json:"bio"`
	ProfilePicture *string `json:"profilePicture"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Format request tidak valid")
		return
	}

	user := UserFromContext(r.Context())
	updated, err := s.users.UpdateProfile(r.Context(), user.ID, req.Nama, req.Bio, req.ProfilePicture)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profil berhasil diupdate",
		"user":    updated,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Format request tidak valid")
		return
	}

	user := UserFromContext(r.Context())
	if err := s.users.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password berhasil diubah"})
}

type deleteAccountRequest struct {
	Confirmation string `json:"confirmation"`
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req deleteAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Format request tidak valid")
		return
	}

	user := UserFromContext(r.Context())
	if err := s.users.DeleteAccount(r.Context(), user.ID, req.Confirmation); err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Akun berhasil dihapus"})
}
