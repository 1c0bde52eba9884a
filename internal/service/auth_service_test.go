package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/auth"
	"github.com/fieldsuite/admin-service/internal/config"
	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/events"
	"github.com/fieldsuite/admin-service/internal/repository"
)

type fakeResetRepo struct {
	rows map[string]repository.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{rows: make(map[string]repository.PasswordResetToken)}
}

func (f *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	f.rows[token.ID] = *token
	return nil
}

func (f *fakeResetRepo) GetByToken(_ context.Context, token string) (*repository.PasswordResetToken, error) {
	for _, row := range f.rows {
		if row.Token == token {
			r := row
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	row, ok := f.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	row.UsedAt = &now
	f.rows[id] = row
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeResetRepo) {
	t.Helper()
	users := newFakeUserRepo()
	resets := newFakeResetRepo()
	cfg := config.AuthConfig{BcryptCost: 4, SessionTTLMinutes: 60, PasswordResetTTLMinutes: 30}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:          users,
		PasswordResetRepo: resets,
		TokenManager:      auth.NewTokenManager("test-secret", time.Hour),
		Dispatcher:        events.NewInMemoryDispatcher(),
	})
	return svc, users, resets
}

func seedUser(t *testing.T, users *fakeUserRepo, id, email, password string, status domain.UserStatus) {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	users.rows[id] = domain.User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleTenantAdmin,
		Status:       status,
	}
}

func TestLoginIssuesSession(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	seedUser(t, users, "usr_1", "admin@example.com", "hunter22", domain.UserStatusActive)

	user, session, err := svc.Login(context.Background(), "  Admin@Example.com ", "hunter22")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != "usr_1" {
		t.Fatalf("expected usr_1, got %s", user.ID)
	}
	if session.Token == "" || session.TokenID == "" {
		t.Fatal("expected a signed session token")
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Fatal("session must expire in the future")
	}
}

func TestLoginDoesNotRevealAccounts(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	seedUser(t, users, "usr_1", "admin@example.com", "hunter22", domain.UserStatusActive)

	_, _, unknownErr := svc.Login(context.Background(), "ghost@example.com", "hunter22")
	_, _, badPassErr := svc.Login(context.Background(), "admin@example.com", "wrong")

	if domainErrCode(t, unknownErr) != "UNAUTHORIZED" {
		t.Fatalf("unknown email: expected UNAUTHORIZED, got %v", unknownErr)
	}
	if domainErrCode(t, badPassErr) != "UNAUTHORIZED" {
		t.Fatalf("bad password: expected UNAUTHORIZED, got %v", badPassErr)
	}
	if unknownErr.Error() != badPassErr.Error() {
		t.Fatalf("unknown email and bad password must be indistinguishable: %q vs %q", unknownErr, badPassErr)
	}
}

func TestLoginRejectsSuspendedAccount(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	seedUser(t, users, "usr_1", "admin@example.com", "hunter22", domain.UserStatusSuspended)

	_, _, err := svc.Login(context.Background(), "admin@example.com", "hunter22")
	if domainErrCode(t, err) != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	seedUser(t, users, "usr_1", "admin@example.com", "hunter22", domain.UserStatusActive)

	if err := svc.ChangePassword(context.Background(), "usr_1", "wrong", "next-pass"); err == nil {
		t.Fatal("expected rejection with wrong current password")
	}
	if err := svc.ChangePassword(context.Background(), "usr_1", "hunter22", "next-pass"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "admin@example.com", "next-pass"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestUpdateProfileChangesNameAndEmail(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	seedUser(t, users, "usr_1", "admin@example.com", "hunter22", domain.UserStatusActive)

	name := "Renamed User"
	email := " New@Example.com "
	user, err := svc.UpdateProfile(context.Background(), "usr_1", &name, &email)
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if user.Name != "Renamed User" || user.Email != "new@example.com" {
		t.Fatalf("unexpected profile: %q %q", user.Name, user.Email)
	}
	if users.rows["usr_1"].Email != "new@example.com" {
		t.Fatal("email change was not persisted")
	}
}

func TestUpdateProfileRejectsTakenEmail(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	seedUser(t, users, "usr_1", "admin@example.com", "hunter22", domain.UserStatusActive)
	seedUser(t, users, "usr_2", "other@example.com", "hunter22", domain.UserStatusActive)

	email := "other@example.com"
	_, err := svc.UpdateProfile(context.Background(), "usr_1", nil, &email)
	if domainErrCode(t, err) != "CONFLICT" {
		t.Fatalf("expected CONFLICT for taken email, got %v", err)
	}

	// Re-submitting the current address is not a conflict.
	same := "admin@example.com"
	if _, err := svc.UpdateProfile(context.Background(), "usr_1", nil, &same); err != nil {
		t.Fatalf("own email resubmission failed: %v", err)
	}
}

func TestPasswordResetRoundTrip(t *testing.T) {
	svc, users, resets := newAuthFixture(t)
	seedUser(t, users, "usr_1", "admin@example.com", "hunter22", domain.UserStatusActive)

	if err := svc.RequestPasswordReset(context.Background(), "admin@example.com"); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	if len(resets.rows) != 1 {
		t.Fatalf("expected one stored token, got %d", len(resets.rows))
	}
	var token string
	for _, row := range resets.rows {
		token = row.Token
	}

	if err := svc.ConfirmPasswordReset(context.Background(), token, "reset-pass"); err != nil {
		t.Fatalf("confirm reset failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "admin@example.com", "reset-pass"); err != nil {
		t.Fatalf("login with reset password failed: %v", err)
	}

	// Token is single use.
	err := svc.ConfirmPasswordReset(context.Background(), token, "again")
	if domainErrCode(t, err) != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR on reuse, got %v", err)
	}
}

func TestPasswordResetSilentOnUnknownEmail(t *testing.T) {
	svc, _, resets := newAuthFixture(t)

	if err := svc.RequestPasswordReset(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("expected silent success, got %v", err)
	}
	if len(resets.rows) != 0 {
		t.Fatalf("no token should be stored for unknown email")
	}
}

func TestLogoutToleratesInvalidToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("empty token logout failed: %v", err)
	}
	if err := svc.Logout(context.Background(), "not-a-jwt"); err != nil {
		t.Fatalf("garbage token logout failed: %v", err)
	}
}
