package auth

import "errors"

// Reasons a verification failed. They are logged but never returned to a
// caller, who only learns that access was denied.
var (
	CredentialNotFoundErr = errors.New("credential not found")
	CredentialRevokedErr  = errors.New("credential revoked")
	SecretsDontMatchErr   = errors.New("secrets not matched")
	InvalidUserIDErr      = errors.New("invalid user id")
	SessionUnknownErr     = errors.New("session unknown")
	SessionExpiredErr     = errors.New("session expired")
)
