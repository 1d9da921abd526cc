package app

import (
	"context"

	"github.com/vk/ts-dumper/internal/ctxlog"
	"github.com/vk/ts-dumper/internal/dumper"
	"github.com/vk/ts-dumper/internal/fsutil"
)

// Run executes the dump pipeline: ensure target dir, login, resolve the
// collection, then fetch and write every page.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Info("Running " + Name + " v" + Version + ".")

	created, err := fsutil.EnsureDir(a.config.TargetDir)
	if err != nil {
		return &dumper.FileError{Path: a.config.TargetDir, Err: err}
	}
	if created {
		a.logger.Warn("Target directory does not exist. Creating.", "path", a.config.TargetDir)
	}

	if err := a.client.Login(ctx, a.config.Username, a.config.Password); err != nil {
		return err
	}
	a.logger.Info("Got session ID.", "sessionId", a.client.SessionID())

	a.logger.Info("Getting collection ID from name.", "name", a.config.CollectionName)
	col, err := a.client.CollectionByName(ctx, a.config.CollectionName)
	if err != nil {
		return err
	}
	a.logger.Info("Found collection.", "name", col.Name, "colId", col.ID, "description", col.Description)

	d := dumper.New(a.client, a.config.TargetDir, a.config.Workers, a.outW)
	stats, err := d.Run(ctx, col)
	if err != nil {
		return err
	}
	a.logger.Info("Dump finished.",
		"documents", stats.Documents, "pages", stats.Pages,
		"written", stats.Written, "failed", stats.Failed)
	return nil
}
