package registry

// Credential format policy. Go's regexp has no lookahead, so the rules
// (usernames: 6-20 alphanumerics with an uppercase letter and a digit;
// passwords: 8+ alphanumerics with a letter and a digit) are spelled out as
// explicit character scans.

// UsernameValid reports whether username is 6–20 alphanumeric characters
// with at least one uppercase letter and at least one digit.
func UsernameValid(username string) bool {
	if len(username) < 6 || len(username) > 20 {
		return false
	}
	var upper, digit bool
	for _, c := range username {
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
			digit = true
		default:
			return false
		}
	}
	return upper && digit
}

// PasswordValid reports whether password is at least 8 alphanumeric
// characters with at least one letter and at least one digit.
func PasswordValid(password string) bool {
	if len(password) < 8 {
		return false
	}
	var letter, digit bool
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
			letter = true
		case c >= '0' && c <= '9':
			digit = true
		default:
			return false
		}
	}
	return letter && digit
}
