package validate

import "regexp"

// indianMobile matches a 10-digit Indian mobile number, which always starts
// with 6-9.
var indianMobile = regexp.MustCompile(`^[6-9]\d{9}$`)

// pinCode matches a 6-digit Indian postal PIN code, which never starts with 0.
var pinCode = regexp.MustCompile(`^[1-9]\d{5}$`)

// nonDigits strips everything that is not a digit.
var nonDigits = regexp.MustCompile(`\D`)

// IndianMobile reports whether the input is a valid Indian mobile number.
// Spaces and punctuation are stripped before matching, but a country prefix
// is rejected: the stored canonical form is the bare 10-digit number.
func IndianMobile(phone string) bool {
	return indianMobile.MatchString(nonDigits.ReplaceAllString(phone, ""))
}

// PinCode reports whether the input is a valid 6-digit PIN code.
func PinCode(pin string) bool {
	return pinCode.MatchString(pin)
}
