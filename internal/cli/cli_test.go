package cli_test

// These tests manipulate the process environment, so none of them run in
// parallel.

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/ts-dumper/internal/cli"
)

func TestParse_AllOptions(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := cli.Parse([]string{
		"--collection-name", "Cadmania",
		"--username", "alice",
		"--password", "s3cret",
		"--target-dir", "/tmp/dump",
		"--verbosity", "DEBUG",
		"--log-format", "json",
		"--workers", "4",
		"--base-url", "http://localhost:9999/rest",
		"-x",
	}, out)

	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Equal(t, "Cadmania", cfg.CollectionName)
	require.Equal(t, "alice", cfg.Username)
	require.Equal(t, "s3cret", cfg.Password)
	require.Equal(t, "/tmp/dump", cfg.TargetDir)
	require.Equal(t, "DEBUG", cfg.Verbosity)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, "http://localhost:9999/rest", cfg.BaseURL)
	require.True(t, cfg.ShowTrace)
}

func TestParse_MissingCollectionName(t *testing.T) {
	out := &bytes.Buffer{}

	_, _, err := cli.Parse([]string{"--username", "alice", "--password", "pw"}, out)

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, cli.ExitConfiguration, exitErr.Code)
	require.Contains(t, exitErr.Message, "--collection-name")
}

func TestParse_MissingPasswordWithoutTerminal(t *testing.T) {
	// Test stdin is not a terminal, so the prompt cannot be shown and the
	// missing option is reported instead.
	out := &bytes.Buffer{}

	_, _, err := cli.Parse([]string{"--collection-name", "C", "--username", "alice"}, out)

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, cli.ExitConfiguration, exitErr.Code)
	require.Contains(t, exitErr.Message, "--password")
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}

	_, shouldExit, err := cli.Parse([]string{"--help"}, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	for _, option := range []string{
		"--verbosity", "--version", "--collection-name", "--username",
		"--password", "--target-dir", "-x", "--help",
	} {
		require.Contains(t, out.String(), option)
	}
}

func TestParse_Version(t *testing.T) {
	out := &bytes.Buffer{}

	_, shouldExit, err := cli.Parse([]string{"--version"}, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Regexp(t, `^ts-dumper v\d`, out.String())
}

func TestParse_UnknownFlag(t *testing.T) {
	out := &bytes.Buffer{}

	_, _, err := cli.Parse([]string{"--frobnicate"}, out)

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, cli.ExitConfiguration, exitErr.Code)
}

func TestParse_InvalidVerbosity(t *testing.T) {
	out := &bytes.Buffer{}

	_, _, err := cli.Parse([]string{
		"--collection-name", "C", "--username", "u", "--password", "p",
		"--verbosity", "LOUD",
	}, out)

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Contains(t, exitErr.Message, "invalid verbosity")
}

func TestParse_VerbosityShorthandAndLowercase(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, _, err := cli.Parse([]string{
		"--collection-name", "C", "--username", "u", "--password", "p",
		"-v", "debug",
	}, out)

	require.NoError(t, err)
	require.Equal(t, "DEBUG", cfg.Verbosity)
}

func TestParse_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TSDUMPER_USERNAME", "env-user")
	t.Setenv("TSDUMPER_PASSWORD", "env-pass")
	out := &bytes.Buffer{}

	cfg, _, err := cli.Parse([]string{"--collection-name", "C"}, out)

	require.NoError(t, err)
	require.Equal(t, "env-user", cfg.Username)
	require.Equal(t, "env-pass", cfg.Password)
}

func TestParse_FlagBeatsEnvironment(t *testing.T) {
	t.Setenv("TSDUMPER_USERNAME", "env-user")
	out := &bytes.Buffer{}

	cfg, _, err := cli.Parse([]string{
		"--collection-name", "C", "--username", "flag-user", "--password", "p",
	}, out)

	require.NoError(t, err)
	require.Equal(t, "flag-user", cfg.Username)
}

func TestParse_ProfileSuppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "profile.hcl")
	profile := `
collection_name = "Cadmania"
username        = "profile-user"
password        = "profile-pass"
target_dir      = "` + dir + `"
workers         = 3
`
	require.NoError(t, os.WriteFile(profilePath, []byte(profile), 0o600))
	out := &bytes.Buffer{}

	cfg, _, err := cli.Parse([]string{"--config", profilePath}, out)

	require.NoError(t, err)
	require.Equal(t, "Cadmania", cfg.CollectionName)
	require.Equal(t, "profile-user", cfg.Username)
	require.Equal(t, 3, cfg.Workers)
}

func TestParse_EnvironmentBeatsProfile(t *testing.T) {
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "profile.hcl")
	profile := `
collection_name = "Cadmania"
username        = "profile-user"
password        = "profile-pass"
`
	require.NoError(t, os.WriteFile(profilePath, []byte(profile), 0o600))
	t.Setenv("TSDUMPER_USERNAME", "env-user")
	out := &bytes.Buffer{}

	cfg, _, err := cli.Parse([]string{"--config", profilePath}, out)

	require.NoError(t, err)
	require.Equal(t, "env-user", cfg.Username)
}

func TestParse_BadProfile(t *testing.T) {
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "broken.hcl")
	require.NoError(t, os.WriteFile(profilePath, []byte(`username = `), 0o600))
	out := &bytes.Buffer{}

	_, _, err := cli.Parse([]string{"--config", profilePath}, out)

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, cli.ExitConfiguration, exitErr.Code)
}

func TestTraceEnabled(t *testing.T) {
	require.False(t, cli.TraceEnabled([]string{"--collection-name", "C"}))
	require.True(t, cli.TraceEnabled([]string{"-x", "--collection-name", "C"}))

	t.Setenv(cli.TraceEnvVar, "1")
	require.True(t, cli.TraceEnabled(nil))
}
