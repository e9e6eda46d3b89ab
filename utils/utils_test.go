package utils

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateRandomDigitString(t *testing.T) {
	code := GenerateRandomDigitString(6)
	if len(code) != 6 {
		t.Fatalf("length = %d, want 6", len(code))
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit %q in code %q", r, code)
		}
	}
}

func TestGenerateReference(t *testing.T) {
	ref := GenerateReference("PAY")
	if !strings.HasPrefix(ref, "PAY-") {
		t.Errorf("reference %q lacks prefix", ref)
	}
	if len(ref) != len("PAY-")+12 {
		t.Errorf("reference %q has unexpected length", ref)
	}
	if ref == GenerateReference("PAY") {
		t.Error("two references should not collide")
	}
}

func TestDefaultPassword(t *testing.T) {
	cases := map[string]string{
		"ada":     "Ada",
		"BOLA":    "Bola",
		"Chinedu": "Chinedu",
		"":        "Student",
	}
	for in, want := range cases {
		if got := DefaultPassword(in); got != want {
			t.Errorf("DefaultPassword(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseQueryOptions(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/admin/students?page=3&limit=20&search=ada&status=paid", nil)
	q := ParseQueryOptions(r)
	if q.Page != 3 || q.Limit != 20 || q.Search != "ada" || q.Status != "paid" {
		t.Errorf("parsed %+v", q)
	}

	defaults := ParseQueryOptions(httptest.NewRequest("GET", "/", nil))
	if defaults.Page != 1 || defaults.Limit != 50 {
		t.Errorf("defaults = %+v", defaults)
	}
}
