package dumper

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/vk/ts-dumper/internal/ctxlog"
	"github.com/vk/ts-dumper/internal/fsutil"
	"github.com/vk/ts-dumper/internal/transkribus"
)

// Dumper fetches every page of a collection and writes its transcript and
// metadata files. One Dumper serves one run; the target directory must
// already exist.
type Dumper struct {
	client  *transkribus.Client
	dir     string
	workers int
	out     io.Writer
}

// Stats summarizes a finished run.
type Stats struct {
	Documents int // documents whose page list was fetched
	Pages     int // pages processed
	Written   int // pages whose files were written
	Failed    int // pages skipped because of an error
}

// New returns a Dumper writing under dir with the given fetch concurrency.
// workers below 1 means sequential; a nil out suppresses progress output.
func New(client *transkribus.Client, dir string, workers int, out io.Writer) *Dumper {
	if workers < 1 {
		workers = 1
	}
	if out == nil {
		out = io.Discard
	}
	return &Dumper{client: client, dir: dir, workers: workers, out: out}
}

// docPages pairs a document with its fetched page list.
type docPages struct {
	doc   transkribus.Document
	pages []transkribus.Page
}

// Run enumerates col and dumps all of its pages. Individual page failures
// are counted and logged but do not abort the run; an error is returned
// only when the run as a whole cannot proceed.
func (d *Dumper) Run(ctx context.Context, col *transkribus.Collection) (Stats, error) {
	logger := ctxlog.FromContext(ctx)
	var stats Stats

	docs, err := d.client.Documents(ctx, col.ID)
	if err != nil {
		return stats, err
	}
	logger.Info("Got documents from collection.", "count", len(docs), "colId", col.ID)

	var all []docPages
	var docFailures int
	bar := d.newBar(len(docs), "Getting pages per doc")
	for _, doc := range docs {
		pages, err := d.client.Pages(ctx, col.ID, doc.ID)
		if err != nil {
			logger.Error("Failed to fetch document.", "docId", doc.ID, "title", doc.Title, "error", err)
			docFailures++
			_ = bar.Add(1)
			continue
		}
		logger.Debug("Fetched document pages.", "docId", doc.ID, "title", doc.Title, "pages", len(pages))
		all = append(all, docPages{doc: doc, pages: pages})
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	if len(docs) > 0 && docFailures == len(docs) {
		return stats, &transkribus.TransportError{
			Op:  "fetch documents",
			Err: fmt.Errorf("all %d document fetches failed", len(docs)),
		}
	}
	stats.Documents = len(all)

	var total int
	for _, dp := range all {
		total += len(dp.pages)
	}
	bar = d.newBar(total, "Getting latest transcripts")

	var mu sync.Mutex // guards stats
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for _, dp := range all {
		for _, page := range dp.pages {
			g.Go(func() error {
				err := d.dumpPage(gctx, page)
				mu.Lock()
				stats.Pages++
				if err != nil {
					stats.Failed++
				} else {
					stats.Written++
				}
				mu.Unlock()
				if err != nil {
					ctxlog.FromContext(gctx).Error("Failed to process page.",
						"docId", dp.doc.ID, "image", page.ImgFileName, "error", err)
				}
				_ = bar.Add(1)
				// Page errors never abort the group; cancellation does.
				return context.Cause(gctx)
			})
		}
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}
	_ = bar.Finish()
	return stats, nil
}

// dumpPage resolves the page's newest transcript, falls back to the next
// older one when the newest has no text, and writes the text and meta files.
func (d *Dumper) dumpPage(ctx context.Context, page transkribus.Page) error {
	transcripts := slices.Clone(page.TsList.Transcripts)
	if len(transcripts) == 0 {
		return fmt.Errorf("page %s has no transcripts", page.ImgFileName)
	}
	slices.SortFunc(transcripts, func(a, b transkribus.Transcript) int {
		// Newest first.
		switch {
		case a.Timestamp > b.Timestamp:
			return -1
		case a.Timestamp < b.Timestamp:
			return 1
		default:
			return 0
		}
	})
	latest := transcripts[0]

	text, ok, err := d.client.TranscriptText(ctx, latest.URL)
	if err != nil {
		return err
	}
	if !ok {
		if len(transcripts) < 2 {
			return fmt.Errorf("transcript of page %s has no text content", page.ImgFileName)
		}
		text, ok, err = d.client.TranscriptText(ctx, transcripts[1].URL)
		if err != nil {
			return err
		}
		if !ok {
			text = ""
		}
	}

	stem := fsutil.Stem(page.ImgFileName)
	textPath := filepath.Join(d.dir, stem+".txt")
	metaPath := filepath.Join(d.dir, stem+"-meta.txt")

	ctxlog.FromContext(ctx).Debug("Writing page files.", "path", textPath, "chars", len(text))
	if err := os.WriteFile(textPath, []byte(text), 0o644); err != nil {
		return &FileError{Path: textPath, Err: err}
	}
	// Metadata always describes the newest transcript, even when its text
	// came from an older version.
	if err := os.WriteFile(metaPath, []byte(renderMeta(latest)), 0o644); err != nil {
		return &FileError{Path: metaPath, Err: err}
	}
	return nil
}

func (d *Dumper) newBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(d.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
