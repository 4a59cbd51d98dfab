package repository

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/visatide/identity-service/internal/domain"
)

func TestFindByIdentifier(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	mustCreateUser(t, db, &domain.User{
		FirstName:   "Jane",
		Email:       "jane@example.com",
		PhoneNumber: "08011112222",
	})

	t.Run("by email", func(t *testing.T) {
		u, err := repo.FindByIdentifier("jane@example.com")
		if err != nil {
			t.Fatalf("find by email: %v", err)
		}
		if u.FirstName != "Jane" {
			t.Fatalf("unexpected user: %+v", u)
		}
	})

	t.Run("by email case insensitive", func(t *testing.T) {
		u, err := repo.FindByIdentifier("JANE@Example.COM")
		if err != nil {
			t.Fatalf("find by uppercased email: %v", err)
		}
		if u.PhoneNumber != "08011112222" {
			t.Fatalf("unexpected user: %+v", u)
		}
	})

	t.Run("by phone number", func(t *testing.T) {
		u, err := repo.FindByIdentifier("08011112222")
		if err != nil {
			t.Fatalf("find by phone: %v", err)
		}
		if u.Email != "jane@example.com" {
			t.Fatalf("unexpected user: %+v", u)
		}
	})

	t.Run("unknown identifier", func(t *testing.T) {
		if _, err := repo.FindByIdentifier("nobody@example.com"); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Fatalf("expected record not found, got %v", err)
		}
	})
}

func TestFindByPhoneNumberTrimsInput(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	mustCreateUser(t, db, &domain.User{PhoneNumber: "08033334444"})

	u, err := repo.FindByPhoneNumber("  08033334444  ")
	if err != nil {
		t.Fatalf("find by phone: %v", err)
	}
	if u.PhoneNumber != "08033334444" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestListFiltersByUserType(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	base := time.Now().UTC().Add(-time.Hour)
	mustCreateUser(t, db, &domain.User{PhoneNumber: "1", Role: domain.RoleCustomer, CreatedAt: base})
	mustCreateUser(t, db, &domain.User{PhoneNumber: "2", Role: domain.RoleVisaOfficer, CreatedAt: base.Add(time.Minute)})
	mustCreateUser(t, db, &domain.User{PhoneNumber: "3", Role: domain.RoleSuperAdmin, CreatedAt: base.Add(2 * time.Minute)})
	mustCreateUser(t, db, &domain.User{PhoneNumber: "4", Role: domain.RoleCustomer, CreatedAt: base.Add(3 * time.Minute)})

	t.Run("all", func(t *testing.T) {
		users, err := repo.List(ListFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(users) != 4 {
			t.Fatalf("expected 4 users, got %d", len(users))
		}
	})

	t.Run("customers only", func(t *testing.T) {
		users, err := repo.List(ListFilter{UserType: "customer"})
		if err != nil {
			t.Fatalf("list customers: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("expected 2 customers, got %d", len(users))
		}
		for _, u := range users {
			if u.Role != domain.RoleCustomer {
				t.Fatalf("unexpected role in customer list: %s", u.Role)
			}
		}
	})

	t.Run("staff only", func(t *testing.T) {
		users, err := repo.List(ListFilter{UserType: "staff"})
		if err != nil {
			t.Fatalf("list staff: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("expected 2 staff, got %d", len(users))
		}
		for _, u := range users {
			if u.Role == domain.RoleCustomer {
				t.Fatal("customer leaked into staff list")
			}
		}
	})

	t.Run("newest first", func(t *testing.T) {
		users, err := repo.List(ListFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for i := 1; i < len(users); i++ {
			if users[i-1].CreatedAt.Before(users[i].CreatedAt) {
				t.Fatal("expected users ordered newest first")
			}
		}
	})
}

func TestUpdatePersistsChanges(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	user := mustCreateUser(t, db, &domain.User{PhoneNumber: "08055556666", FirstName: "Old"})

	user.FirstName = "New"
	if err := repo.Update(user); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.FirstName != "New" {
		t.Fatalf("expected updated first name, got %q", got.FirstName)
	}
}
