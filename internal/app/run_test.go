package app_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/ts-dumper/internal/app"
	"github.com/vk/ts-dumper/internal/testutil"
	"github.com/vk/ts-dumper/internal/transkribus"
)

func fixtureServer(t *testing.T) *testutil.Server {
	t.Helper()
	srv := testutil.NewServer(t, "alice", "s3cret")
	srv.Collections = []testutil.Collection{
		{
			ID:          9,
			Name:        "Cadmania",
			Description: "letters",
			Documents: []testutil.Document{
				{
					ID:    300,
					Title: "Letters",
					Pages: []testutil.Page{
						{
							ImgFileName: "IMG_0001.jpg",
							Transcripts: []testutil.Transcript{
								{Timestamp: 1000, Text: "hello", HasText: true, Status: "DONE", UserName: "alice", NrOfLines: 1},
							},
						},
					},
				},
			},
		},
	}
	return srv
}

func newConfig(t *testing.T, srv *testutil.Server, dir, collection, username, password string) *app.Config {
	t.Helper()
	cfg, err := app.NewConfig(app.Config{
		CollectionName: collection,
		Username:       username,
		Password:       password,
		TargetDir:      dir,
		BaseURL:        srv.URL,
		Timeout:        5 * time.Second,
	})
	require.NoError(t, err)
	return cfg
}

func TestRun_Success(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := fixtureServer(t)
	dir := t.TempDir()
	a := app.NewApp(io.Discard, newConfig(t, srv, dir, "Cadmania", "alice", "s3cret"))
	t.Cleanup(func() { _ = a.Close() })

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	text, readErr := os.ReadFile(filepath.Join(dir, "IMG_0001.txt"))
	require.NoError(t, readErr)
	require.Equal(t, "hello", string(text))
	_, statErr := os.Stat(filepath.Join(dir, "IMG_0001-meta.txt"))
	require.NoError(t, statErr)
}

func TestRun_BadCredentialsWriteNothing(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := fixtureServer(t)
	dir := t.TempDir()
	a := app.NewApp(io.Discard, newConfig(t, srv, dir, "Cadmania", "alice", "wrong"))
	t.Cleanup(func() { _ = a.Close() })

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	var authErr *transkribus.AuthError
	require.True(t, errors.As(err, &authErr), "expected an AuthError, got %T", err)
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	require.Empty(t, entries, "authentication must fail before any enumeration")
}

func TestRun_UnknownCollectionWritesNothing(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := fixtureServer(t)
	dir := t.TempDir()
	a := app.NewApp(io.Discard, newConfig(t, srv, dir, "NoSuchCollection", "alice", "s3cret"))
	t.Cleanup(func() { _ = a.Close() })

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	var nfErr *transkribus.NotFoundError
	require.True(t, errors.As(err, &nfErr), "expected a NotFoundError, got %T", err)
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	require.Empty(t, entries)
}

func TestRun_CreatesMissingTargetDir(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := fixtureServer(t)
	dir := filepath.Join(t.TempDir(), "not", "yet", "there")
	a := app.NewApp(io.Discard, newConfig(t, srv, dir, "Cadmania", "alice", "s3cret"))
	t.Cleanup(func() { _ = a.Close() })

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	info, statErr := os.Stat(dir)
	require.NoError(t, statErr)
	require.True(t, info.IsDir())
}
