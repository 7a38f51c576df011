package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/stayware/ticketdesk/internal/model"
)

func newMockStore(t *testing.T) (*UserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return NewUserStore(db), mock
}

func userRows(u model.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "display_name", "password_hash", "auth_provider",
		"avatar_url", "is_active", "hotel_id", "created_at", "updated_at",
	}).AddRow(u.ID, u.Email, u.DisplayName, u.PasswordHash, u.AuthProvider,
		u.AvatarURL, u.IsActive, u.HotelID, u.CreatedAt, u.UpdatedAt)
}

func TestFindByEmail(t *testing.T) {
	store, mock := newMockStore(t)
	want := model.User{
		ID: 3, Email: "a@x.com", DisplayName: "Ada", PasswordHash: "hash",
		AuthProvider: model.ProviderLocal, IsActive: true, HotelID: 12,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}

	// The store lowercases and trims before querying.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1")).
		WithArgs("a@x.com").
		WillReturnRows(userRows(want))

	got, ok, err := store.FindByEmail(context.Background(), "  A@X.com ")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if !ok {
		t.Fatal("expected user to be found")
	}
	if got.ID != want.ID || got.Email != want.Email || got.HotelID != want.HotelID {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestFindByEmailNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1")).
		WithArgs("ghost@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, ok, err := store.FindByEmail(context.Background(), "ghost@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if ok {
		t.Fatal("unknown email reported as found")
	}
}

func TestCreateLocalUserDuplicate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (email, display_name, password_hash, auth_provider, is_active) VALUES (?,?,?,?,1)")).
		WithArgs("dup@x.com", "Dup", "hash", model.ProviderLocal).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'dup@x.com' for key 'users.email'"))

	_, err := store.CreateLocalUser(context.Background(), "dup@x.com", "Dup", "hash")
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("got %v, want ErrEmailExists", err)
	}
}

func TestCreateLocalUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (email, display_name, password_hash, auth_provider, is_active) VALUES (?,?,?,?,1)")).
		WithArgs("new@x.com", "New", "hash", model.ProviderLocal).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1")).
		WithArgs(uint64(5)).
		WillReturnRows(userRows(model.User{
			ID: 5, Email: "new@x.com", DisplayName: "New", PasswordHash: "hash",
			AuthProvider: model.ProviderLocal, IsActive: true,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}))

	u, err := store.CreateLocalUser(context.Background(), "New@x.com", "New", "hash")
	if err != nil {
		t.Fatalf("CreateLocalUser: %v", err)
	}
	if u.ID != 5 || u.Email != "new@x.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestGetRolesForUser(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery("SELECT r.id, r.name, r.permissions, r.is_system, r.created_at, r.updated_at").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "permissions", "is_system", "created_at", "updated_at"}).
			AddRow(1, "admin", []byte(`{"tickets":["*"],"roles":["*"]}`), true, now, now).
			AddRow(2, "support", []byte(`{"tickets":["read","update"]}`), false, now, now))

	roles, err := store.GetRolesForUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetRolesForUser: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(roles))
	}
	if got := roles[0].Permissions["tickets"]; len(got) != 1 || got[0] != "*" {
		t.Fatalf("wildcard permissions decoded wrong: %v", roles[0].Permissions)
	}
	if got := roles[1].Permissions["tickets"]; len(got) != 2 {
		t.Fatalf("ticket permissions decoded wrong: %v", roles[1].Permissions)
	}
}

func TestFindValidPasswordResetTokenByHash(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	t.Run("live token", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id, token_hash, expires_at, consumed_at, created_at").
			WithArgs("hash1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "consumed_at", "created_at"}).
				AddRow(1, 9, "hash1", now.Add(10*time.Minute), nil, now))

		tok, ok, err := store.FindValidPasswordResetTokenByHash(context.Background(), "hash1")
		if err != nil || !ok {
			t.Fatalf("ok=%v err=%v, want live token", ok, err)
		}
		if tok.UserID != 9 {
			t.Fatalf("unexpected token: %+v", tok)
		}
	})

	t.Run("consumed token", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id, token_hash, expires_at, consumed_at, created_at").
			WithArgs("hash2").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "consumed_at", "created_at"}).
				AddRow(2, 9, "hash2", now.Add(10*time.Minute), now.Add(-time.Minute), now))

		_, ok, err := store.FindValidPasswordResetTokenByHash(context.Background(), "hash2")
		if err != nil {
			t.Fatalf("FindValidPasswordResetTokenByHash: %v", err)
		}
		if ok {
			t.Fatal("consumed token reported valid")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id, token_hash, expires_at, consumed_at, created_at").
			WithArgs("hash3").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "consumed_at", "created_at"}).
				AddRow(3, 9, "hash3", now.Add(-time.Minute), nil, now))

		_, ok, err := store.FindValidPasswordResetTokenByHash(context.Background(), "hash3")
		if err != nil {
			t.Fatalf("FindValidPasswordResetTokenByHash: %v", err)
		}
		if ok {
			t.Fatal("expired token reported valid")
		}
	})
}

func TestDeleteRoleSystem(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_system FROM roles WHERE id=? LIMIT 1")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"is_system"}).AddRow(true))

	if err := store.DeleteRole(context.Background(), 1); !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func TestDeleteRole(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_system FROM roles WHERE id=? LIMIT 1")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"is_system"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_roles WHERE role_id=?")).
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM roles WHERE id=?")).
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.DeleteRole(context.Background(), 4); err != nil {
		t.Fatalf("DeleteRole: %v", err)
	}
}

func TestConsumeAllPasswordResetTokensForUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE password_reset_tokens SET consumed_at=NOW() WHERE user_id=? AND consumed_at IS NULL")).
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := store.ConsumeAllPasswordResetTokensForUser(context.Background(), 9); err != nil {
		t.Fatalf("ConsumeAllPasswordResetTokensForUser: %v", err)
	}
}
