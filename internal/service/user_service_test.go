package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/visatide/identity-service/internal/domain"
	"github.com/visatide/identity-service/internal/security"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.userSvc.Register(ctx, RegisterInput{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "Jane@Example.COM",
		PhoneNumber: "08011112222",
		Password:    "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected token issued at registration")
	}
	user := result.User
	if user.Role != domain.RoleCustomer {
		t.Fatalf("expected CUSTOMER role, got %s", user.Role)
	}
	if user.Status != domain.StatusUnverified {
		t.Fatalf("expected UNVERIFIED status, got %s", user.Status)
	}
	if user.Email != "jane@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if user.ProfileImg != domain.DefaultProfileImg {
		t.Fatalf("expected default profile image, got %q", user.ProfileImg)
	}

	cred, err := f.credRepo.FindByUserID(user.ID)
	if err != nil {
		t.Fatalf("expected credential created, got %v", err)
	}
	if !security.VerifyPassword(cred.PasswordHash, "password123") {
		t.Fatal("expected stored hash to match password")
	}
	if !cred.HasActiveVerification(time.Now().UTC()) {
		t.Fatal("expected a pending verification code")
	}

	// The welcome notification carries the verification code.
	code := f.notifier.lastCode(t)
	if !security.CodeMatches(code, cred.VerificationCodeHash) {
		t.Fatal("expected delivered code to match stored hash")
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	input := RegisterInput{
		FirstName:   "Jane",
		LastName:    "Doe",
		PhoneNumber: "08011112223",
		Password:    "password123",
	}
	if _, err := f.userSvc.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}

	if _, err := f.userSvc.Register(ctx, input); !errors.Is(err, ErrPhoneNumberTaken) {
		t.Fatalf("expected ErrPhoneNumberTaken, got %v", err)
	}
}

func TestCreateStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name        string
		callerAdmin bool
		input       CreateStaffInput
		wantRole    string
		wantAdmin   bool
		wantErr     error
	}{
		{
			name:        "admin assigns staff role",
			callerAdmin: true,
			input:       CreateStaffInput{PhoneNumber: "1001", Password: "password123", Role: domain.RoleVisaOfficer, IsAdmin: true},
			wantRole:    domain.RoleVisaOfficer,
			wantAdmin:   true,
		},
		{
			name:        "non-admin silently downgraded",
			callerAdmin: false,
			input:       CreateStaffInput{PhoneNumber: "1002", Password: "password123", Role: domain.RoleVisaOfficer, IsAdmin: true},
			wantRole:    domain.RoleCustomer,
			wantAdmin:   false,
		},
		{
			name:        "empty role defaults to customer",
			callerAdmin: true,
			input:       CreateStaffInput{PhoneNumber: "1003", Password: "password123"},
			wantRole:    domain.RoleCustomer,
		},
		{
			name:        "unknown role rejected",
			callerAdmin: true,
			input:       CreateStaffInput{PhoneNumber: "1004", Password: "password123", Role: "OVERLORD"},
			wantErr:     ErrInvalidRole,
		},
		{
			name:        "super admin never assignable",
			callerAdmin: true,
			input:       CreateStaffInput{PhoneNumber: "1005", Password: "password123", Role: domain.RoleSuperAdmin},
			wantErr:     ErrInvalidRole,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := f.userSvc.CreateStaff(ctx, tc.callerAdmin, tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("create staff: %v", err)
			}
			if user.Role != tc.wantRole {
				t.Fatalf("expected role %s, got %s", tc.wantRole, user.Role)
			}
			if user.IsAdmin != tc.wantAdmin {
				t.Fatalf("expected is_admin %v, got %v", tc.wantAdmin, user.IsAdmin)
			}
			if user.Status != domain.StatusActive {
				t.Fatalf("expected ACTIVE status, got %s", user.Status)
			}
			if _, err := f.credRepo.FindByUserID(user.ID); err != nil {
				t.Fatalf("expected credential created, got %v", err)
			}
		})
	}
}

func TestCreateStaffDuplicatePhone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, &domain.User{PhoneNumber: "08099998888"}, "password123")

	_, err := f.userSvc.CreateStaff(ctx, true, CreateStaffInput{
		PhoneNumber: "08099998888",
		Password:    "password123",
		Role:        domain.RoleAccountant,
	})
	if !errors.Is(err, ErrPhoneNumberTaken) {
		t.Fatalf("expected ErrPhoneNumberTaken, got %v", err)
	}
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, &domain.User{
		FirstName:   "Jane",
		LastName:    "Doe",
		PhoneNumber: "08012341234",
		ProfileImg:  domain.DefaultProfileImg,
	}, "password123")

	newFirst := "Janet"
	onboarded := true
	updated, err := f.userSvc.Update(context.Background(), user.ID, UpdateUserInput{
		FirstName:   &newFirst,
		IsOnboarded: &onboarded,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Janet" {
		t.Fatalf("expected first name updated, got %q", updated.FirstName)
	}
	if updated.LastName != "Doe" {
		t.Fatalf("expected last name untouched, got %q", updated.LastName)
	}
	if updated.PhoneNumber != "08012341234" {
		t.Fatalf("expected phone untouched, got %q", updated.PhoneNumber)
	}
	if !updated.IsOnboarded {
		t.Fatal("expected onboarded flag set")
	}
}

func TestUpdateUnknownUser(t *testing.T) {
	f := newFixture(t)
	name := "Ghost"
	_, err := f.userSvc.Update(context.Background(), 999, UpdateUserInput{FirstName: &name})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSuspendToggles(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, &domain.User{PhoneNumber: "08056785678", Status: domain.StatusActive}, "password123")
	ctx := context.Background()

	got, action, err := f.userSvc.Suspend(ctx, user.ID)
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if action != "suspended" || got.Status != domain.StatusSuspended {
		t.Fatalf("expected suspension, got action=%q status=%s", action, got.Status)
	}

	got, action, err = f.userSvc.Suspend(ctx, user.ID)
	if err != nil {
		t.Fatalf("unsuspend: %v", err)
	}
	if action != "activated" || got.Status != domain.StatusActive {
		t.Fatalf("expected activation, got action=%q status=%s", action, got.Status)
	}
}

func TestSuspendUnverifiedLandsOnActive(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, &domain.User{PhoneNumber: "08056785679", Status: domain.StatusUnverified}, "password123")
	ctx := context.Background()

	if _, _, err := f.userSvc.Suspend(ctx, user.ID); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	got, action, err := f.userSvc.Suspend(ctx, user.ID)
	if err != nil {
		t.Fatalf("unsuspend: %v", err)
	}
	// The toggle never restores UNVERIFIED; it always lands on ACTIVE.
	if action != "activated" || got.Status != domain.StatusActive {
		t.Fatalf("expected ACTIVE after unsuspend, got action=%q status=%s", action, got.Status)
	}
}

func TestListByUserType(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, &domain.User{PhoneNumber: "2001", Role: domain.RoleCustomer}, "password123")
	f.seedUser(t, &domain.User{PhoneNumber: "2002", Role: domain.RoleAccountant}, "password123")
	ctx := context.Background()

	customers, err := f.userSvc.List(ctx, "customer")
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(customers) != 1 || customers[0].Role != domain.RoleCustomer {
		t.Fatalf("unexpected customers: %+v", customers)
	}

	staff, err := f.userSvc.List(ctx, "staff")
	if err != nil {
		t.Fatalf("list staff: %v", err)
	}
	if len(staff) != 1 || staff[0].Role != domain.RoleAccountant {
		t.Fatalf("unexpected staff: %+v", staff)
	}
}

func TestNotificationsReadBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.userSvc.Register(ctx, RegisterInput{
		FirstName:   "Jane",
		PhoneNumber: "08077778888",
		Password:    "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	notifications, err := f.userSvc.Notifications(ctx, result.User.ID)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifications))
	}
	if notifications[0].Text != "You are not verified yet" {
		t.Fatalf("unexpected notification text: %q", notifications[0].Text)
	}
}
