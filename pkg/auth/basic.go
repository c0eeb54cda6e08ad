package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"sync"

	"github.com/gin-gonic/gin"

	apierrors "github.com/nzbgetcom/webconf/pkg/errors"
)

// Realm is sent in the WWW-Authenticate challenge
const Realm = "webconf"

// Credentials checks a user name and password against the configured ones.
// Passwords that verified against a bcrypt hash are remembered by their
// SHA-256 digest so repeated requests skip the bcrypt cost.
type Credentials struct {
	username string
	password string
	hashed   bool

	mu       sync.RWMutex
	verified map[string]struct{}
}

// NewCredentials creates credentials for username and password, where
// password is either plain text or a bcrypt hash
func NewCredentials(username, password string) *Credentials {
	return &Credentials{
		username: username,
		password: password,
		hashed:   IsHash(password),
		verified: make(map[string]struct{}),
	}
}

// Check reports whether username and password match
func (c *Credentials) Check(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) != 1 {
		return false
	}
	if !c.hashed {
		return subtle.ConstantTimeCompare([]byte(password), []byte(c.password)) == 1
	}

	digest := sha256.Sum256([]byte(password))
	key := hex.EncodeToString(digest[:])

	c.mu.RLock()
	_, ok := c.verified[key]
	c.mu.RUnlock()
	if ok {
		return true
	}

	if err := VerifyPassword(password, c.password); err != nil {
		return false
	}

	c.mu.Lock()
	c.verified[key] = struct{}{}
	c.mu.Unlock()
	return true
}

// BasicAuthMiddleware requires HTTP basic authentication and stores the
// user name under gin.AuthUserKey
func BasicAuthMiddleware(creds *Credentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok || !creds.Check(username, password) {
			c.Header("WWW-Authenticate", `Basic realm="`+Realm+`", charset="UTF-8"`)
			apierrors.Unauthorized(c, nil)
			c.Abort()
			return
		}

		c.Set(gin.AuthUserKey, username)
		c.Next()
	}
}
