package release

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadVersion(t *testing.T) {
	path := writeManifest(t, "name: sso\ndescription: token fetcher\nversion: 0.4.7\n")
	v, err := ReadVersion(path)
	require.NoError(t, err)
	assert.Equal(t, "0.4.7", v.String())
}

func TestReadVersion_Quoted(t *testing.T) {
	for _, content := range []string{
		`version: "2.0.1"` + "\n",
		`version: '2.0.1'` + "\n",
		`  version: 2.0.1` + "\n",
	} {
		v, err := ReadVersion(writeManifest(t, content))
		require.NoError(t, err, "content %q", content)
		assert.Equal(t, "2.0.1", v.String())
	}
}

func TestReadVersion_Missing(t *testing.T) {
	_, err := ReadVersion(writeManifest(t, "name: sso\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no version line")
}

func TestWriteVersion_PreservesEverythingElse(t *testing.T) {
	content := "# release manifest\nname: sso\nversion: \"1.0.0\"\nhomepage: https://example.com\n"
	path := writeManifest(t, content)

	require.NoError(t, WriteVersion(path, semver.MustParse("1.0.1")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# release manifest\nname: sso\nversion: \"1.0.1\"\nhomepage: https://example.com\n", string(data))
}

func TestWriteVersion_OnlyFirstLineRewritten(t *testing.T) {
	// A second version-looking line (e.g. a dependency pin) must be untouched.
	content := "version: 1.0.0\ntooling:\n  version: 9.9.9\n"
	path := writeManifest(t, content)

	require.NoError(t, WriteVersion(path, semver.MustParse("1.1.0")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "version: 1.1.0\ntooling:\n  version: 9.9.9\n", string(data))
}

func TestWriteVersion_NoVersionLine(t *testing.T) {
	path := writeManifest(t, "name: sso\n")
	err := WriteVersion(path, semver.MustParse("1.0.0"))
	require.Error(t, err)
}
