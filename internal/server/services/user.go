// Package services contains the server-side business logic. This file
// implements UserService: registration, login, profile management, password
// changes and account deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ruangpuisi/api/internal/common"
	"github.com/ruangpuisi/api/internal/dbx"
	"github.com/ruangpuisi/api/internal/server/auth"
	"github.com/ruangpuisi/api/internal/server/config"
	"github.com/ruangpuisi/api/internal/server/models"
	"github.com/ruangpuisi/api/internal/server/repositories/repomanager"
	"github.com/ruangpuisi/api/internal/server/repositories/users"
	"github.com/ruangpuisi/api/internal/server/telegram"
	"github.com/ruangpuisi/api/internal/validation"
)

// DeleteConfirmationPhrase must be sent verbatim to delete an account.
const DeleteConfirmationPhrase = "HAPUS AKUN SAYA"

// UserService provides authentication-related operations:
//   - Register: validate input, hash the password, create the user
//   - Login: verify credentials and mint a bearer token
//   - UpdateProfile / ChangePassword / DeleteAccount: self-service account
//     management for an authenticated user
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	notifier              *telegram.Notifier
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, notifier *telegram.Notifier, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		notifier:              notifier,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new account. The email is lower-cased before storage so
// the unique index treats addresses case-insensitively. A fire-and-forget
// Telegram notification is sent on success.
func (s *UserService) Register(ctx context.Context, nama, email, password string, meta telegram.RequestMeta) (*models.User, error) {
	nama = strings.TrimSpace(nama)
	email = strings.ToLower(strings.TrimSpace(email))

	if nama == "" || email == "" || password == "" {
		return nil, common.NewValidationError("Semua field harus diisi")
	}
	if len(nama) > validation.MaxNamaLength {
		return nil, common.NewValidationError("Nama maksimal 50 karakter")
	}
	if !validation.ValidEmail(email) {
		return nil, common.NewValidationError("Format email tidak valid")
	}
	if !validation.ValidPassword(password) {
		return nil, common.NewValidationError("Password minimal 6 karakter dan mengandung huruf dan angka")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Nama:         validation.SanitizeText(nama),
		Email:        email,
		PasswordHash: hash,
	}

	repo := s.repomanager.Users(s.db)
	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	s.notifier.SendAsync(telegram.NewUserMessage(created.Nama, created.Email, meta))

	return created, nil
}

// Login verifies the credentials and returns a bearer token plus the user
// record. Unknown email and wrong password yield the same
// common.ErrorUnauthorized so clients cannot probe for registered addresses.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, common.NewValidationError("Email dan password harus diisi")
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, common.ErrorUnauthorized
	}

	if err := repo.UpdateLastLogin(ctx, user.ID); err != nil {
		return "", nil, common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	user.PasswordHash = ""
	return token, user, nil
}

// GetByID resolves a user without the password hash. Used by the auth
// middleware to confirm that a token's subject still exists.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// UpdateProfile mutates the caller's profile and keeps the denormalized
// author name on their posts in sync, inside one transaction.
func (s *UserService) UpdateProfile(ctx context.Context, userID, nama, bio string, profilePicture *string) (*models.User, error) {
	nama = strings.TrimSpace(nama)

	if nama == "" {
		return nil, common.NewValidationError("Nama harus diisi")
	}
	if len(nama) > validation.MaxNamaLength {
		return nil, common.NewValidationError("Nama maksimal 50 karakter")
	}
	if len(bio) > validation.MaxBioLength {
		return nil, common.NewValidationError("Bio maksimal 500 karakter")
	}
	if profilePicture != nil && !validation.ValidURL(*profilePicture) {
		return nil, common.NewValidationError("URL foto profil tidak valid")
	}

	nama = validation.SanitizeText(nama)
	bio = validation.SanitizeText(bio)

	var updated *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		updated, txErr = s.repomanager.Users(tx).UpdateProfile(ctx, userID, users.ProfileUpdate{
			Nama:           nama,
			Bio:            bio,
			ProfilePicture: profilePicture,
		})
		if txErr != nil {
			return txErr
		}
		return s.repomanager.Puisi(tx).UpdatePenulisNama(ctx, userID, nama)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	return updated, nil
}

// ChangePassword verifies the current password and stores a hash of the new
// one. The new password is held to the same policy as registration.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	repo := s.repomanager.Users(s.db)

	hash, err := repo.GetHashByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}

	if !auth.CheckPassword(currentPassword, hash) {
		return common.NewValidationError("Password saat ini salah")
	}
	if !validation.ValidPassword(newPassword) {
		return common.NewValidationError("Password minimal 6 karakter dan mengandung huruf dan angka")
	}

	newHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := repo.UpdatePassword(ctx, userID, newHash); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// DeleteAccount removes the user and everything they own. The caller must
// echo DeleteConfirmationPhrase exactly. Likes placed by the user on other
// posts are removed first so those posts' cached counts stay equal to their
// liker-set cardinality; then the user's posts and finally the user row are
// deleted, all in one transaction.
func (s *UserService) DeleteAccount(ctx context.Context, userID, confirmation string) error {
	if confirmation != DeleteConfirmationPhrase {
		return common.NewValidationError("Konfirmasi tidak sesuai. Ketik: " + DeleteConfirmationPhrase)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		puisiRepo := s.repomanager.Puisi(tx)
		if err := puisiRepo.RemoveSukaByUser(ctx, userID); err != nil {
			return err
		}
		if err := puisiRepo.DeleteByPenulis(ctx, userID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}
	return nil
}
