package validation

import (
	"errors"
	"testing"

	"moviecatalog/internal/apperr"
)

type signup struct {
	FullName string   `json:"fullName" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Rating   *float64 `json:"rating" validate:"required,gte=0,lte=5"`
	Nickname *string  `json:"nickname" validate:"omitnil,min=1,max=5"`
}

func ptr[T any](v T) *T { return &v }

func TestValidateStruct(t *testing.T) {
	valid := signup{FullName: "Ann", Email: "ann@example.com", Password: "secret1", Rating: ptr(4.0)}

	tests := []struct {
		name    string
		mutate  func(*signup)
		wantMsg string
	}{
		{"valid", func(*signup) {}, ""},
		{"missing name", func(s *signup) { s.FullName = "" }, "fullName is required"},
		{"bad email", func(s *signup) { s.Email = "nope" }, "email must be a valid email address"},
		{"short password", func(s *signup) { s.Password = "123" }, "password must be at least 6 characters"},
		{"missing rating", func(s *signup) { s.Rating = nil }, "rating is required"},
		{"zero rating allowed", func(s *signup) { s.Rating = ptr(0.0) }, ""},
		{"rating too high", func(s *signup) { s.Rating = ptr(5.5) }, "rating must be less than or equal to 5"},
		{"nil optional skipped", func(s *signup) { s.Nickname = nil }, ""},
		{"empty optional rejected", func(s *signup) { s.Nickname = ptr("") }, "nickname must be at least 1 characters"},
		{"long optional rejected", func(s *signup) { s.Nickname = ptr("toolong") }, "nickname must be at most 5 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)

			verr := ValidateStruct(s)
			if tt.wantMsg == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("ValidateStruct() = nil, want %q", tt.wantMsg)
			}
			if verr.Error() != tt.wantMsg {
				t.Errorf("ValidateStruct() = %q, want %q", verr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestCheckReturnsUntypedNil(t *testing.T) {
	s := signup{FullName: "Ann", Email: "ann@example.com", Password: "secret1", Rating: ptr(1.0)}
	if err := Check(s); err != nil {
		t.Fatalf("Check() = %v, want nil", err)
	}

	s.Email = ""
	err := Check(s)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("Check() = %v, want validation error", err)
	}
	if apperr.PublicMessage(err) != "email is required" {
		t.Errorf("PublicMessage() = %q", apperr.PublicMessage(err))
	}
}
