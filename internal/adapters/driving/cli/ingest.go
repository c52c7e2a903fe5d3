package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/filings"
	"github.com/finsight-labs/finsight-cli/internal/logger"
)

var (
	ingestTicker string
	ingestWatch  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Chunk, embed and index filings",
	Long: `Indexes filings into the vector store.

With no arguments, ingests everything in the local filing store (populated
by ` + "`finsight fetch`" + `). With a directory argument, ingests filing files from
that directory instead; files must be named TICKER_TYPE_DATE.html, for
example AAPL_10-K_2023-11-03.html.

--watch keeps running and indexes new files as they appear in the
directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestTicker, "ticker", "", "restrict store ingestion to one ticker")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "watch the directory for new filing files")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return fmt.Errorf("ingest: %w", errNotConfigured)
	}

	if len(args) == 0 {
		if ingestWatch {
			return fmt.Errorf("--watch requires a directory argument")
		}
		report, err := ingestService.IngestStored(cmd.Context(), ingestTicker)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		printReport(cmd, report)
		return nil
	}

	dir := args[0]
	batch, err := loadFilingDir(dir)
	if err != nil {
		return err
	}

	if len(batch) > 0 {
		report, err := ingestService.IngestFilings(cmd.Context(), batch)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		printReport(cmd, report)
	} else if !ingestWatch {
		cmd.Println("No filing files found.")
	}

	if ingestWatch {
		return watchFilingDir(cmd.Context(), cmd, dir)
	}
	return nil
}

func printReport(cmd *cobra.Command, r domain.IngestReport) {
	cmd.Printf("Processed %d filing(s) in %s: %d chunk(s) indexed",
		r.FilingsProcessed, r.Duration.Round(time.Millisecond), r.ChunksIndexed)
	if r.FilingsSkipped > 0 || r.ChunksSkipped > 0 {
		cmd.Printf(" (%d filing(s), %d chunk(s) skipped)", r.FilingsSkipped, r.ChunksSkipped)
	}
	cmd.Println()
}

// loadFilingDir reads every filing file in dir, non-recursively.
func loadFilingDir(dir string) ([]domain.Filing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var batch []domain.Filing
	for _, entry := range entries {
		if entry.IsDir() || !filingFile(entry.Name()) {
			continue
		}
		f, err := loadFilingFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warn("Skipping %s: %v", entry.Name(), err)
			continue
		}
		batch = append(batch, f)
	}
	return batch, nil
}

// loadFilingFile parses one TICKER_TYPE_DATE file into a filing.
func loadFilingFile(path string) (domain.Filing, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.SplitN(base, "_", 3)
	if len(parts) != 3 {
		return domain.Filing{}, fmt.Errorf("file name %q is not TICKER_TYPE_DATE", filepath.Base(path))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Filing{}, err
	}

	content := string(raw)
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".htm" || ext == ".html" {
		content = filings.StripHTML(content)
	}

	f := domain.Filing{
		ID:         base,
		Ticker:     strings.ToUpper(parts[0]),
		FilingType: domain.FilingType(strings.ToUpper(parts[1])),
		FilingDate: parts[2],
		Content:    content,
		FetchedAt:  time.Now().UTC(),
	}
	if err := f.Validate(); err != nil {
		return domain.Filing{}, err
	}
	return f, nil
}

func filingFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".htm", ".html", ".txt":
		return true
	}
	return false
}

// watchFilingDir indexes new filing files as they land in dir.
// Runs until the context is cancelled.
func watchFilingDir(ctx context.Context, cmd *cobra.Command, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	cmd.Printf("Watching %s for new filings (Ctrl-C to stop)...\n", dir)

	// Writers create then fill files. Ingest on the last write for a
	// path, after a short settle delay.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if filingFile(event.Name) {
				pending[event.Name] = time.Now()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case <-ticker.C:
			for path, at := range pending {
				if time.Since(at) < time.Second {
					continue
				}
				delete(pending, path)

				f, err := loadFilingFile(path)
				if err != nil {
					logger.Warn("Skipping %s: %v", filepath.Base(path), err)
					continue
				}
				report, err := ingestService.IngestFilings(ctx, []domain.Filing{f})
				if err != nil {
					logger.Warn("Ingest %s: %v", filepath.Base(path), err)
					continue
				}
				printReport(cmd, report)
			}
		}
	}
}
