package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	fact, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "Pallab Sar", fact.Name)
	require.NotEmpty(t, fact.Location)
	require.NotEmpty(t, fact.LifeStory)
	require.NotEmpty(t, fact.Superpower)
	require.NotEmpty(t, fact.LatestProject)
	require.NotEmpty(t, fact.Skills)
	require.NotEmpty(t, fact.Projects)
}

func TestLoadFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.yaml")
	body := "name: Test Person\nlocation: Nowhere\nskills:\n  - Go\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	fact, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Test Person", fact.Name)
	require.Equal(t, "Nowhere", fact.Location)
	require.Equal(t, []string{"Go"}, fact.Skills)
	// the file replaces the embedded record entirely, no field merging
	require.Empty(t, fact.LatestProject)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "read facts file")
}

func TestLoadRejectsNamelessRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("location: Somewhere\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing a name")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestIsLatestProjectQuestion(t *testing.T) {
	tests := []struct {
		question string
		want     bool
	}{
		{"What is your latest project?", true},
		{"Tell me about your RECENT PROJECT", true},
		{"what's your newest project", true},
		{"What are your projects?", false},
		{"What is your superpower?", false},
		{"", false},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, IsLatestProjectQuestion(tc.question), tc.question)
	}
}
