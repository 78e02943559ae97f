package secret

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source identifies where a resolved value came from, for diagnostics.
type Source string

const (
	SourcePrimaryMount Source = "secrets_mount"
	SourceAltMount     Source = "alt_secrets_mount"
	SourceEnv          Source = "environment"
	SourceNone         Source = "none"
)

// Resolver loads variables using this priority list:
//  1. A file under PrimaryDir whose basename is the lowercased variable name.
//  2. A file under AltDir, same naming rule.
//  3. The process environment variable (uppercased).
type Resolver struct {
	PrimaryDir string
	AltDir     string
}

// NewResolver returns a Resolver using the standard mount points.
func NewResolver() *Resolver {
	return &Resolver{
		PrimaryDir: "/run/secrets",
		AltDir:     "/secrets",
	}
}

// Resolved pairs a value with the source it was read from.
type Resolved struct {
	Value  string
	Source Source
}

// Resolve returns the first non-placeholder value found for variable
// (case-insensitive), trying the mount directories before the environment.
func (r *Resolver) Resolve(variable string) Resolved {
	lower := strings.ToLower(variable)
	upper := strings.ToUpper(variable)

	if r.PrimaryDir != "" {
		if v, ok := readSecretFile(filepath.Join(r.PrimaryDir, lower)); ok {
			return Resolved{Value: v, Source: SourcePrimaryMount}
		}
	}
	if r.AltDir != "" {
		if v, ok := readSecretFile(filepath.Join(r.AltDir, lower)); ok {
			return Resolved{Value: v, Source: SourceAltMount}
		}
	}
	if v := os.Getenv(upper); !isPlaceholder(v) {
		return Resolved{Value: v, Source: SourceEnv}
	}
	return Resolved{Source: SourceNone}
}

func readSecretFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(string(data))
	if isPlaceholder(value) {
		return "", false
	}
	return value, true
}

// Credentials holds the client-credentials pair required at startup.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// LoadCredentials resolves ARUBA_CLIENT_ID and ARUBA_CLIENT_SECRET. A missing
// required credential is a fatal ConfigError.
func (r *Resolver) LoadCredentials() (*Credentials, error) {
	id := r.Resolve("aruba_client_id")
	if id.Source == SourceNone {
		return nil, fmt.Errorf("config: ARUBA_CLIENT_ID is required but was not found in %s, %s, or the environment", r.PrimaryDir, r.AltDir)
	}

	secret := r.Resolve("aruba_client_secret")
	if secret.Source == SourceNone {
		return nil, fmt.Errorf("config: ARUBA_CLIENT_SECRET is required but was not found in %s, %s, or the environment", r.PrimaryDir, r.AltDir)
	}

	return &Credentials{ClientID: id.Value, ClientSecret: secret.Value}, nil
}
