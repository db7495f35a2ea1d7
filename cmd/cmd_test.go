package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPassword_FromPipe(t *testing.T) {
	var prompt bytes.Buffer

	password, err := readPassword(&prompt, strings.NewReader("s3cret\r\nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", password)
	assert.Empty(t, prompt.String(), "no prompt without a terminal")

	password, err = readPassword(&prompt, strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", password)
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestUserAddAndBookImport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "books.db"))
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")
	envFile := filepath.Join(dir, "missing.env")

	out, err := run(t, "", "--env-file", envFile, "migrate")
	require.NoError(t, err, out)

	out, err = run(t, "p\n", "--env-file", envFile, "user", "add", "--username", "alice", "--email", "alice@x")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Created user alice")

	_, err = run(t, "p\n", "--env-file", envFile, "user", "add", "--username", "alice", "--email", "other@x")
	assert.Error(t, err)

	csvPath := filepath.Join(dir, "books.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"title,author,genre,condition,location\n"+
			"Dune,Frank Herbert,SF,Good,Tbilisi\n"+
			"Emma,Jane Austen,Romance,Worn,Batumi\n"), 0o600))

	out, err = run(t, "", "--env-file", envFile, "book", "import", csvPath, "--owner", "alice")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 2 books for alice")

	_, err = run(t, "", "--env-file", envFile, "book", "import", csvPath, "--owner", "nobody")
	assert.Error(t, err)
}
