package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/placemarks/internal/bookmarks"
	"github.com/nikbrunner/placemarks/internal/model"
)

var flagSortBy string

var showCmd = &cobra.Command{
	Use:   "show <category>",
	Short: "Show the bookmarks and tracks of a category",
	Long: `Show prints a category's contents grouped into sorted blocks. The
category is given by id or exact name. Without --by the last sorting type
chosen for the category is used, or name.

Example:
  placemarks show 3
  placemarks show Lisbon --by time`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var sortCmd = &cobra.Command{
	Use:   "sort <category> --by <type>",
	Short: "Set the sorting type of a category",
	Long: `Sort remembers a sorting type for the category and prints the
category sorted that way. Types: type, distance, time, name.
Sorting by distance needs position.known in config.yaml.

Example:
  placemarks sort Lisbon --by distance`,
	Args: cobra.ExactArgs(1),
	RunE: runSort,
}

func init() {
	showCmd.Flags().StringVar(&flagSortBy, "by", "", "sorting type: type, distance, time, name")
	sortCmd.Flags().StringVar(&flagSortBy, "by", "", "sorting type: type, distance, time, name")
	_ = sortCmd.MarkFlagRequired("by")
}

// blockView is the JSON form of a sorted block.
type blockView struct {
	Name      string           `json:"name"`
	Bookmarks []model.Bookmark `json:"bookmarks,omitempty"`
	Tracks    []model.Track    `json:"tracks,omitempty"`
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	cat, err := s.category(args[0])
	if err != nil {
		return err
	}

	sortType := model.SortByName
	if last, ok := s.manager.LastSortingType(cat.ID); ok {
		sortType = last
	}
	if flagSortBy != "" {
		if sortType, err = model.ParseSortingType(flagSortBy); err != nil {
			return err
		}
	}

	return showSorted(s, cat, sortType)
}

func runSort(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	cat, err := s.category(args[0])
	if err != nil {
		return err
	}
	sortType, err := model.ParseSortingType(flagSortBy)
	if err != nil {
		return err
	}

	available := s.manager.AvailableSortingTypes(cat.ID, cfg.Position.Known)
	if !containsType(available, sortType) {
		return fmt.Errorf("sorting %q by %s is not available (available: %s)", cat.Name, sortType, joinTypes(available))
	}
	if err := s.manager.SetLastSortingType(cat.ID, sortType); err != nil {
		return fmt.Errorf("save sorting type: %w", err)
	}

	return showSorted(s, cat, sortType)
}

// showSorted sorts cat through the Manager and prints the blocks.
func showSorted(s *session, cat model.Category, sortType model.SortingType) error {
	params := model.SortParams{
		CategoryID: cat.ID,
		Type:       sortType,
		Timestamp:  time.Now().UnixNano(),
	}
	if cfg.Position.Known {
		params.HasMyPosition = true
		params.Lat = cfg.Position.Lat
		params.Lon = cfg.Position.Lon
	}

	s.manager.SortCategory(params)
	s.settle()
	if s.events.cancelled {
		return errors.New("sorting was cancelled")
	}

	blocks := resolveBlocks(s.manager, s.events.sorted)
	if flagJSON {
		return printJSON(blocks)
	}

	fmt.Printf("%s (by %s)\n", cat.Name, sortType)
	if len(blocks) == 0 {
		fmt.Println("  (empty)")
		return nil
	}
	for _, b := range blocks {
		fmt.Printf("\n%s\n", b.Name)
		for _, t := range b.Tracks {
			fmt.Printf("  %-6d ~ %s  %.1f km\n", t.ID, t.Name, t.Length()/1000)
		}
		for _, bm := range b.Bookmarks {
			fmt.Printf("  %-6d %s  %.5f,%.5f\n", bm.ID, bm.Name, bm.Lat, bm.Lon)
		}
	}
	return nil
}

func resolveBlocks(m *bookmarks.Manager, blocks []model.SortedBlock) []blockView {
	views := make([]blockView, 0, len(blocks))
	for _, b := range blocks {
		v := blockView{Name: b.Name}
		for _, id := range b.BookmarkIDs {
			if bm, ok := m.Bookmark(id); ok {
				v.Bookmarks = append(v.Bookmarks, bm)
			}
		}
		for _, id := range b.TrackIDs {
			if t, ok := m.Track(id); ok {
				v.Tracks = append(v.Tracks, t)
			}
		}
		views = append(views, v)
	}
	return views
}

func containsType(types []model.SortingType, t model.SortingType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func joinTypes(types []model.SortingType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
