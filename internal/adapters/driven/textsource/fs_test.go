package textsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, content, 0644))
	}
}

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"t1/gerente-a/cat-112233.txt": []byte("Certidão de Acervo Técnico"),
		"t1/gerente-b/cat-778899.txt": []byte("adução de água"),
		"t2/gerente-c/cat-445566.txt": []byte("pavimentação"),
		"t1/.obsoleto/antigo.txt":     []byte("ignorado"),
		"t1/solto.txt":                []byte("fora da árvore"),
	})

	provider := NewProvider()
	files, err := provider.ListFiles(context.Background(), root, "")
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "t1", files[0].TenantID)
	assert.Equal(t, "gerente-a", files[0].Manager)
	assert.Equal(t, "cat-112233.txt", files[0].Name)
}

func TestListFilesTenantScope(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"t1/gerente-a/um.txt":   []byte("um"),
		"t2/gerente-b/dois.txt": []byte("dois"),
	})

	files, err := NewProvider().ListFiles(context.Background(), root, "t2")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "t2", files[0].TenantID)
}

func TestListFilesEmptyRoot(t *testing.T) {
	_, err := NewProvider().ListFiles(context.Background(), "", "t1")
	assert.Error(t, err)
}

func TestExtractText(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "cat.txt")
	require.NoError(t, os.WriteFile(path, []byte("Certidão de Acervo Técnico Nº 112233/2021"), 0644))

	text, err := NewProvider().ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "112233/2021")
}

func TestExtractTextRejectsBinary(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "scan.pdf")
	require.NoError(t, os.WriteFile(path, []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0x01}, 0644))

	_, err := NewProvider().ExtractText(context.Background(), path)
	assert.Error(t, err)
}

func TestExtractTextMissingFile(t *testing.T) {
	_, err := NewProvider().ExtractText(context.Background(), filepath.Join(t.TempDir(), "nada.txt"))
	assert.Error(t, err)
}
