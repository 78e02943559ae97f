package secret

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrefersPrimaryMount(t *testing.T) {
	primary := t.TempDir()
	alt := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(primary, "aruba_client_secret"), []byte("from-primary"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(alt, "aruba_client_secret"), []byte("from-alt"), 0o600))
	t.Setenv("ARUBA_CLIENT_SECRET", "from-env")

	r := &Resolver{PrimaryDir: primary, AltDir: alt}
	got := r.Resolve("aruba_client_secret")
	assert.Equal(t, "from-primary", got.Value)
	assert.Equal(t, SourcePrimaryMount, got.Source)
}

func TestResolveFallsBackToAltThenEnv(t *testing.T) {
	primary := t.TempDir()
	alt := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(alt, "aruba_client_secret"), []byte("from-alt"), 0o600))

	r := &Resolver{PrimaryDir: primary, AltDir: alt}
	got := r.Resolve("aruba_client_secret")
	assert.Equal(t, "from-alt", got.Value)
	assert.Equal(t, SourceAltMount, got.Source)

	r2 := &Resolver{PrimaryDir: t.TempDir(), AltDir: t.TempDir()}
	t.Setenv("ARUBA_CLIENT_SECRET", "from-env")
	got2 := r2.Resolve("aruba_client_secret")
	assert.Equal(t, "from-env", got2.Value)
	assert.Equal(t, SourceEnv, got2.Source)
}

func TestResolveTreatsPlaceholdersAsAbsent(t *testing.T) {
	t.Setenv("ARUBA_CLIENT_SECRET", "your_client_secret_here")

	r := &Resolver{PrimaryDir: t.TempDir(), AltDir: t.TempDir()}
	got := r.Resolve("aruba_client_secret")
	assert.Equal(t, SourceNone, got.Source)
}

func TestLoadCredentialsMissingIsFatal(t *testing.T) {
	r := &Resolver{PrimaryDir: t.TempDir(), AltDir: t.TempDir()}
	_, err := r.LoadCredentials()
	assert.Error(t, err)
}

func TestLoadCredentialsSuccess(t *testing.T) {
	t.Setenv("ARUBA_CLIENT_ID", "client-123")
	t.Setenv("ARUBA_CLIENT_SECRET", "s3cret")

	r := &Resolver{PrimaryDir: t.TempDir(), AltDir: t.TempDir()}
	creds, err := r.LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, "client-123", creds.ClientID)
	assert.Equal(t, "s3cret", creds.ClientSecret)
}
