package validation

import "encoding/base64"

// Base64 accepts padded standard base64 in its canonical form, the encoding the encrypt
// command prints. Empty values pass; pair it with Required when a value is mandatory.
var Base64 = stringRule("validation_base64", "must be padded standard base64", func(s string) bool {
	_, err := base64.StdEncoding.Strict().DecodeString(s)
	return err == nil
})
