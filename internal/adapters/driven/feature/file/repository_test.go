package file

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tmarch/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.toml", FormatTOML},
		{"a.YAML", FormatYAML},
		{"a.yml", FormatYAML},
		{"dir/a.json", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatForPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatForPath("a.txt")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestNewRepository_UnsupportedExtension(t *testing.T) {
	repo, err := NewRepository("/tmp/feature.ini")

	assert.Nil(t, repo)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRepository_DecodesAllFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"f.toml": "id = \"id-1\"\nname = \"Feature Name\"\ndescription = \"From TOML\"\n",
		"f.yaml": "id: id-1\nname: Feature Name\ndescription: From YAML\n",
		"f.json": `{"id":"id-1","name":"Feature Name","description":"From JSON"}`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			repo, err := NewRepository(writeFile(t, dir, name, content))
			require.NoError(t, err)

			e, err := repo.GetFeature(context.Background())

			require.NoError(t, err)
			assert.Equal(t, "id-1", e.ID)
			assert.Equal(t, "Feature Name", e.Name)
			require.NotNil(t, e.Description)
			assert.Contains(t, *e.Description, "From ")
			assert.False(t, e.CreatedAt.IsZero())
		})
	}
}

func TestRepository_OptionalFields(t *testing.T) {
	repo, err := NewRepository(writeFile(t, t.TempDir(), "f.toml", "name = \"Only name\"\n"))
	require.NoError(t, err)

	e, err := repo.GetFeature(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Nil(t, e.Description)
}

func TestRepository_MissingFile(t *testing.T) {
	repo, err := NewRepository(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	_, err = repo.GetFeature(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_DecodeFailures(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad toml", "bad.toml", "name = \n"},
		{"bad json", "bad.json", "{"},
		{"bad yaml", "bad.yaml", "name: [unterminated\n"},
		{"missing name", "noname.json", `{"description":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := NewRepository(writeFile(t, dir, tt.file, tt.content))
			require.NoError(t, err)

			_, err = repo.GetFeature(context.Background())

			assert.ErrorIs(t, err, domain.ErrDecodeFailure)
		})
	}
}

func TestRepository_Unreadable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	path := writeFile(t, t.TempDir(), "locked.toml", "name = \"x\"\n")
	require.NoError(t, os.Chmod(path, 0000))

	repo, err := NewRepository(path)
	require.NoError(t, err)

	_, err = repo.GetFeature(context.Background())

	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestWrite_RoundTrip(t *testing.T) {
	for _, ext := range []string{"toml", "yaml", "json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "feature."+ext)
			in := domain.NewFeatureEntity("id-9", "Written", domain.StringPtr("desc"), domain.FeatureEntity{}.CreatedAt)

			require.NoError(t, Write(path, in))

			repo, err := NewRepository(path)
			require.NoError(t, err)
			out, err := repo.GetFeature(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "id-9", out.ID)
			assert.Equal(t, "Written", out.Name)
			assert.Equal(t, "desc", *out.Description)
		})
	}
}
