package driven

import "context"

// SourceFile is one readable certificate file discovered under the
// certificate tree.
type SourceFile struct {
	// Path is the absolute path on disk.
	Path string

	// TenantID and Manager come from the directory layout
	// <root>/<tenant>/<manager>/<file>.
	TenantID string
	Manager  string

	// Name is the base file name.
	Name string
}

// FileTextProvider lists certificate files and extracts their text.
type FileTextProvider interface {
	// ListFiles walks the certificate tree and returns readable files,
	// optionally restricted to one tenant.
	ListFiles(ctx context.Context, root, tenantID string) ([]SourceFile, error)

	// ExtractText returns the plain text of one file.
	ExtractText(ctx context.Context, path string) (string, error)
}
