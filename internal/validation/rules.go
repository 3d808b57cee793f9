// Package validation holds the jellydator/validation rules shared by the customers API and
// the CLI, and converts their failures into ErrInvalidInput.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func stringRule(code, message string, valid func(string) bool) validation.StringRule {
	return validation.NewStringRuleWithError(valid, validation.NewError(code, message))
}

// WrapValidationError marks a rule failure as ErrInvalidInput so it maps to a 422.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email accepts a bare address with a dotted domain. Display names are rejected.
var Email = stringRule("validation_email_format", "must be a valid email address", emailPattern.MatchString)

// NotBlank rejects values made only of whitespace.
var NotBlank = stringRule("validation_not_blank", "must not be blank", func(s string) bool {
	return strings.TrimSpace(s) != ""
})

// KeysetName accepts names that can appear in the KEYSETS setting, which separates entries
// with ',' and fields with ':'.
var KeysetName = stringRule(
	"validation_keyset_name",
	"must not contain whitespace, ':' or ','",
	func(s string) bool {
		return !strings.ContainsFunc(s, func(r rune) bool {
			return unicode.IsSpace(r) || r == ':' || r == ','
		})
	},
)

// ProfileKeys validates a free-form attribute map: at most max entries and no blank keys.
// A nil map is accepted.
func ProfileKeys(max int) validation.Rule {
	return validation.By(func(value any) error {
		m, ok := value.(map[string]any)
		if !ok {
			return validation.NewError("validation_profile_type", "must be an object")
		}
		if len(m) > max {
			return validation.NewError(
				"validation_profile_size",
				fmt.Sprintf("must contain at most %d attributes", max),
			)
		}
		for k := range m {
			if strings.TrimSpace(k) == "" {
				return validation.NewError("validation_profile_key", "attribute names must not be blank")
			}
		}
		return nil
	})
}
