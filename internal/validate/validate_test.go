package validate

import (
	"strings"
	"testing"

	"github.com/rpattn/contactsvc/internal/domain"
)

func TestTaxIDTenDigits(t *testing.T) {
	// 7701020304: weighted sum 81, 81 % 11 % 10 = 4 = last digit.
	if !TaxID("7701020304") {
		t.Fatalf("expected 7701020304 to be valid")
	}

	// Every other value of the check digit must be rejected.
	for d := byte('0'); d <= '9'; d++ {
		candidate := "770102030" + string(d)
		if candidate == "7701020304" {
			continue
		}
		if TaxID(candidate) {
			t.Fatalf("expected %s to be rejected", candidate)
		}
	}
}

func TestTaxIDTwelveDigits(t *testing.T) {
	if !TaxID("500100732259") {
		t.Fatalf("expected 500100732259 to be valid")
	}

	// Mutating either control digit alone must fail validation.
	if TaxID("500100732249") {
		t.Fatalf("expected first control digit mutation to be rejected")
	}
	if TaxID("500100732258") {
		t.Fatalf("expected second control digit mutation to be rejected")
	}
}

func TestTaxIDShape(t *testing.T) {
	for _, value := range []string{"", "123", "77010203041", "77010203o4", "7701020304770102030477"} {
		if TaxID(value) {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"89991234567", "+79991234567", true},
		{"79991234567", "+79991234567", true},
		{"9991234567", "+79991234567", true},
		{"8 (999) 123-45-67", "+79991234567", true},
		{"+79991234567", "+79991234567", true},
		{"12345", "", false},
		{"69991234567", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizePhone(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("NormalizePhone(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	first, ok := NormalizePhone("89991234567")
	if !ok {
		t.Fatalf("expected first normalization to succeed")
	}
	second, ok := NormalizePhone(first)
	if !ok || second != first {
		t.Fatalf("normalization not idempotent: %q -> %q", first, second)
	}
}

func TestRecordCollectsAllViolations(t *testing.T) {
	_, messages := Record(map[string]string{
		domain.FieldName:  "",
		domain.FieldTaxID: "123",
		domain.FieldPhone: "12345",
		domain.FieldEmail: "not-an-email",
	})

	if len(messages) != 4 {
		t.Fatalf("expected 4 violations, got %d: %v", len(messages), messages)
	}
	joined := strings.Join(messages, "; ")
	for _, want := range []string{"name", "tax id", "phone", "email"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected a message about %s in %v", want, messages)
		}
	}
}

func TestRecordValidCandidate(t *testing.T) {
	candidate, messages := Record(map[string]string{
		domain.FieldName:          "Acme",
		domain.FieldTaxID:         " 7701020304 ",
		domain.FieldPhone:         "89991234567",
		domain.FieldRegion:        "Москва",
		domain.FieldContactPerson: "Белкин Д.П.",
		domain.FieldEmail:         "user@example.com",
	})

	if len(messages) != 0 {
		t.Fatalf("unexpected violations: %v", messages)
	}
	if candidate.TaxID != "7701020304" {
		t.Fatalf("expected trimmed tax id, got %q", candidate.TaxID)
	}
	if candidate.Phone != "+79991234567" {
		t.Fatalf("expected normalized phone, got %q", candidate.Phone)
	}
	if candidate.Region != "Москва" || candidate.ContactPerson != "Белкин Д.П." {
		t.Fatalf("optional fields not carried: %+v", candidate)
	}
}

func TestRecordOptionalFieldsMayBeEmpty(t *testing.T) {
	_, messages := Record(map[string]string{
		domain.FieldName:  "Acme",
		domain.FieldTaxID: "7701020304",
		domain.FieldPhone: "9991234567",
	})
	if len(messages) != 0 {
		t.Fatalf("unexpected violations: %v", messages)
	}
}
