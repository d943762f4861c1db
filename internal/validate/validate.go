// Package validate enforces the structural rules for imported contacts:
// required fields, the INN control-digit algorithm and phone normalization.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rpattn/contactsvc/internal/domain"
)

var (
	taxIDShape   = regexp.MustCompile(`^\d{10}$|^\d{12}$`)
	nonDigit     = regexp.MustCompile(`\D`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// checkRule describes one control digit of a tax identifier: the weights
// applied to the leading digits and the index of the digit they must match.
type checkRule struct {
	weights []int
	digit   int
}

// Control-digit rules keyed by identifier length. The 12-digit form carries
// two control digits and both must hold.
var taxIDRules = map[int][]checkRule{
	10: {
		{weights: []int{2, 4, 10, 3, 5, 9, 4, 6, 8}, digit: 9},
	},
	12: {
		{weights: []int{7, 2, 4, 10, 3, 5, 9, 4, 6, 8}, digit: 10},
		{weights: []int{3, 7, 2, 4, 10, 3, 5, 9, 4, 6, 8}, digit: 11},
	},
}

// Record validates one mapped row and returns either a candidate ready for
// persistence or every violation found. Field checks do not short-circuit:
// all messages for the record are collected before returning.
func Record(fields map[string]string) (domain.ContactCandidate, []string) {
	var messages []string

	name := fields[domain.FieldName]
	if name == "" {
		messages = append(messages, "name is required")
	}

	taxID := strings.ToUpper(strings.TrimSpace(fields[domain.FieldTaxID]))
	if taxID == "" {
		messages = append(messages, "tax id is required")
	} else if !TaxID(taxID) {
		messages = append(messages, fmt.Sprintf("invalid tax id: %s", taxID))
	}

	phone, ok := NormalizePhone(fields[domain.FieldPhone])
	if fields[domain.FieldPhone] == "" {
		messages = append(messages, "phone is required")
	} else if !ok {
		messages = append(messages, fmt.Sprintf("invalid phone number: %s", fields[domain.FieldPhone]))
	}

	email := fields[domain.FieldEmail]
	if email != "" && !Email(email) {
		messages = append(messages, fmt.Sprintf("invalid email: %s", email))
	}

	if len(messages) > 0 {
		return domain.ContactCandidate{}, messages
	}

	return domain.ContactCandidate{
		Name:          name,
		TaxID:         taxID,
		Phone:         phone,
		Region:        fields[domain.FieldRegion],
		ContactPerson: fields[domain.FieldContactPerson],
		Email:         email,
	}, nil
}

// TaxID reports whether value is a well-formed INN: 10 or 12 digits with
// matching control digits.
func TaxID(value string) bool {
	if !taxIDShape.MatchString(value) {
		return false
	}

	digits := make([]int, len(value))
	for i, r := range value {
		digits[i] = int(r - '0')
	}

	for _, rule := range taxIDRules[len(digits)] {
		if checkDigit(digits, rule.weights) != digits[rule.digit] {
			return false
		}
	}
	return true
}

func checkDigit(digits, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}
	return sum % 11 % 10
}

// Email reports whether value has a plausible address shape.
func Email(value string) bool {
	return emailPattern.MatchString(value)
}

// NormalizePhone converts accepted Russian phone spellings to the canonical
// +7XXXXXXXXXX form. 11-digit input starting with 7 or 8 keeps its last ten
// digits; bare 10-digit input is taken as-is. Anything else is rejected.
// The function is idempotent on already-canonical input.
func NormalizePhone(value string) (string, bool) {
	digits := nonDigit.ReplaceAllString(value, "")
	switch {
	case len(digits) == 11 && (strings.HasPrefix(digits, "7") || strings.HasPrefix(digits, "8")):
		return "+7" + digits[1:], true
	case len(digits) == 10:
		return "+7" + digits, true
	default:
		return "", false
	}
}
