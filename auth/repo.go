package auth

import (
	"github.com/jrsteele09/go-aletheia/credentials"
	"github.com/jrsteele09/go-aletheia/sessions"
)

// Repos holds the tables owned by the AuthService. Nothing outside this
// package reads them directly.
type Repos struct {
	Credentials credentials.Repo // One credential per user id
	Sessions    sessions.Repo    // Live sessions keyed by token
}
