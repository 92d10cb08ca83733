package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/placemarks/internal/bookmarks"
	"github.com/nikbrunner/placemarks/internal/engine"
)

var (
	flagImportDir     string
	flagImportTimeout time.Duration
)

var importCmd = &cobra.Command{
	Use:   "import [file|url...]",
	Short: "Import KML, KMZ, KMB or GPX files",
	Long: `Import copies each file or http(s) URL into a temporary file and loads
it as a new category. Names that are already in use get a numeric suffix.

With --dir every bookmark file directly inside the directory is loaded,
several at a time.

Example:
  placemarks import trip.kmz
  placemarks import https://example.com/hikes.gpx
  placemarks import --dir ~/Downloads`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&flagImportDir, "dir", "", "import every bookmark file in this directory")
	importCmd.Flags().DurationVar(&flagImportTimeout, "timeout", 30*time.Second, "timeout for downloads")
}

func runImport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && flagImportDir == "" {
		return errors.New("nothing to import: pass files, URLs or --dir")
	}

	uris := make([]*url.URL, 0, len(args))
	for _, arg := range args {
		uri, err := bookmarks.ParseLocator(arg)
		if err != nil {
			return fmt.Errorf("invalid locator %q: %w", arg, err)
		}
		uris = append(uris, uri)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	if flagImportDir != "" {
		paths, err := engine.BookmarkFilesIn(flagImportDir)
		if err != nil {
			return fmt.Errorf("read %s: %w", flagImportDir, err)
		}
		if len(paths) == 0 {
			fmt.Printf("No bookmark files in %s\n", flagImportDir)
		}
		s.engine.LoadFiles(paths, func(completed, total int) {
			fmt.Fprintf(os.Stderr, "\rParsed %d/%d files", completed, total)
			if completed == total {
				fmt.Fprintln(os.Stderr)
			}
		})
		s.settle()
	}

	if len(uris) > 0 {
		resolver := bookmarks.NewLocalResolver(flagImportTimeout)
		done := s.manager.ImportBookmarksFiles(cmd.Context(), resolver, uris, cfg.TempDir())
		<-done
		s.settle()
	}

	fmt.Printf("Imported %d file(s)\n", s.events.imported)
	for _, f := range s.events.failed {
		printErr("failed: %s", f)
	}
	if n := len(s.events.failed); n > 0 {
		return fmt.Errorf("%d import(s) failed", n)
	}
	return nil
}
