package validator

import "testing"

func TestCheckNotBlank(t *testing.T) {
	v := New()
	v.CheckNotBlank("value", "name", "must be provided")
	if !v.IsValid() {
		t.Errorf("unexpected errors: %v", v.Errors)
	}

	v.CheckNotBlank("   ", "content", "must be provided")
	if v.IsValid() {
		t.Error("whitespace-only value must fail")
	}
	if v.Errors["content"] != "must be provided" {
		t.Errorf("got error %q", v.Errors["content"])
	}
}

func TestCheckEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"alice@example.com", true},
		{"alice+tag@sub.example.com", true},
		{"nope", false},
		{"@example.com", false},
		{"alice@", false},
	}

	for _, tt := range tests {
		v := New()
		v.CheckEmail(tt.email, "must be a valid email address")
		if v.IsValid() != tt.valid {
			t.Errorf("CheckEmail(%q): valid = %v, want %v", tt.email, v.IsValid(), tt.valid)
		}
	}
}

func TestAddErrorKeepsFirstMessage(t *testing.T) {
	v := New()
	v.AddError("name", "first")
	v.AddError("name", "second")
	if v.Errors["name"] != "first" {
		t.Errorf("got %q, want %q", v.Errors["name"], "first")
	}
}

func TestIsUnique(t *testing.T) {
	v := New()
	if !v.IsUnique([]string{"go", "testing"}) {
		t.Error("distinct values reported as duplicates")
	}
	if v.IsUnique([]string{"go", "go"}) {
		t.Error("duplicates reported as unique")
	}
}
