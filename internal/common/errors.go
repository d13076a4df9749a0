// Package common defines shared sentinel errors used across the session
// core. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Registration / credential policy errors.
	ErrorUsernameTaken         = errors.New("username already exists")
	ErrorInvalidUsernameFormat = errors.New("invalid username format")
	ErrorInvalidPasswordFormat = errors.New("invalid password format")

	// Authentication errors (login or password reset).
	ErrorAuthFailed = errors.New("invalid username/password")

	// Precondition errors (programmer error at the call site).
	ErrorNotLoggedIn = errors.New("no active session")
)
