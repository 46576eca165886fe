package ports

import "context"

// CredentialStore persists the single bearer credential of this client.
// Load returns domain.ErrNoCredential when nothing is stored.
type CredentialStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, credential string) error
	Clear(ctx context.Context) error
}
