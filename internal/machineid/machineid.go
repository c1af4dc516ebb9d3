// Package machineid derives a deterministic identifier for the local
// machine. The backend treats it as an opaque string; it only has to be
// stable across runs on the same host and user.
package machineid

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"os/user"
)

// ID returns the first 16 hex characters of sha256("hostname-user").
func ID() string {
	return derive(hostname(), username())
}

func derive(host, user string) string {
	sum := sha256.Sum256([]byte(host + "-" + user))
	return hex.EncodeToString(sum[:])[:16]
}

func hostname() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "unknown"
}

func username() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	for _, key := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "unknown"
}
