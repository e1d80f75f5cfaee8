package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func makeUser() domain.User {
	return domain.User{
		ID:        "user-1",
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		FirstName: "John",
		LastName:  "Doe",
		Active:    true,
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"a@b.co", true},
		{"jdoe@example.com", true},
		{"first.last+tag@sub.domain", true},
		{"not-an-email", false},
		{"@domain", false},
		{"user@", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := domain.ValidEmail(tc.email); got != tc.want {
			t.Fatalf("ValidEmail(%q): expected %v, got %v", tc.email, tc.want, got)
		}
	}
}

func TestUserValidateInvariants_Ok(t *testing.T) {
	user := makeUser()
	if errs := user.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestUserValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(u *domain.User)
	}{
		{
			name: "empty username",
			mut: func(u *domain.User) {
				u.Username = ""
			},
		},
		{
			name: "short username",
			mut: func(u *domain.User) {
				u.Username = "ab"
			},
		},
		{
			name: "empty first name",
			mut: func(u *domain.User) {
				u.FirstName = ""
			},
		},
		{
			name: "empty last name",
			mut: func(u *domain.User) {
				u.LastName = ""
			},
		},
		{
			name: "empty email",
			mut: func(u *domain.User) {
				u.Email = ""
			},
		},
		{
			name: "invalid email",
			mut: func(u *domain.User) {
				u.Email = "not-an-email"
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := makeUser()
			tc.mut(&user)

			if len(user.ValidateInvariants()) == 0 {
				t.Fatalf("expected validation errors for case %s", tc.name)
			}
		})
	}
}
