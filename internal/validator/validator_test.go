package validator

import "testing"

func TestValidator_Check(t *testing.T) {
	t.Parallel()

	var v Validator

	v.Check(true, "should not be recorded")
	if v.HasErrors() {
		t.Fatal("no errors expected after passing check")
	}

	v.Check(false, "first failure")
	v.CheckField(false, "field", "field failure")

	if !v.HasErrors() {
		t.Fatal("errors expected after failing checks")
	}
	if len(v.Errors) != 1 || v.Errors[0] != "first failure" {
		t.Fatalf("unexpected errors: %v", v.Errors)
	}
	if v.FieldErrors["field"] != "field failure" {
		t.Fatalf("unexpected field errors: %v", v.FieldErrors)
	}
}

func TestValidator_FirstFieldErrorWins(t *testing.T) {
	t.Parallel()

	var v Validator
	v.CheckField(false, "field", "first")
	v.CheckField(false, "field", "second")

	if v.FieldErrors["field"] != "first" {
		t.Fatalf("expected the first message to be kept, got %q", v.FieldErrors["field"])
	}
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	if NotBlank("   ") {
		t.Fatal("whitespace-only string must be blank")
	}
	if !NotBlank("x") {
		t.Fatal("non-empty string must not be blank")
	}

	if !MinRunes("héllo", 5) || MinRunes("héllo", 6) {
		t.Fatal("MinRunes must count runes, not bytes")
	}
	if !MaxRunes("héllo", 5) || MaxRunes("héllo", 4) {
		t.Fatal("MaxRunes must count runes, not bytes")
	}

	if !IsEmail("user@example.com") {
		t.Fatal("valid email rejected")
	}
	for _, email := range []string{"", "plain", "a@", "@b.com"} {
		if IsEmail(email) {
			t.Fatalf("invalid email accepted: %q", email)
		}
	}
}
