package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/placemarks/internal/model"
	"github.com/nikbrunner/placemarks/internal/picker"
	"github.com/nikbrunner/placemarks/internal/search"
)

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Fuzzy search categories and bookmarks",
	Long: `Find matches the query against category and bookmark names.

With --pick several matches open a picker; the chosen category is shown
sorted, a chosen bookmark is printed in full.

Example:
  placemarks find cafe
  placemarks find old town --pick`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

var flagPick bool

func init() {
	findCmd.Flags().BoolVar(&flagPick, "pick", false, "choose one match interactively")
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <category>",
	Short: "Delete a category with its bookmarks and tracks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var hideCmd = &cobra.Command{
	Use:   "hide [category...]",
	Short: "Hide categories on the map",
	Long: `Hide marks categories as not visible. Without arguments every
category is hidden.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetVisibility(args, false)
	},
}

var unhideCmd = &cobra.Command{
	Use:   "unhide [category...]",
	Short: "Show categories on the map",
	Long: `Unhide marks categories as visible. Without arguments every
category is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetVisibility(args, true)
	},
}

func runFind(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	query := strings.Join(args, " ")
	categories := s.manager.Categories()
	names := map[int64]string{}
	var all []model.Bookmark
	for _, cat := range categories {
		names[cat.ID] = cat.Name
		all = append(all, s.manager.Bookmarks(cat.ID)...)
	}

	results := search.FuzzySearch(categories, all, query)
	if flagJSON {
		return printJSON(results)
	}
	if len(results) == 0 {
		fmt.Printf("No matches for '%s'\n", query)
		return nil
	}

	if flagPick {
		return pickResult(s, results, query, names)
	}

	for _, r := range results {
		switch r.Kind {
		case search.KindCategory:
			fmt.Printf("category  %-6d %s\n", r.Category.ID, r.Category.Name)
		case search.KindBookmark:
			fmt.Printf("bookmark  %-6d %s  (%s)\n", r.Bookmark.ID, r.Bookmark.Name, names[r.Bookmark.CategoryID])
		}
	}
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	name := strings.TrimSpace(args[0])
	if s.manager.IsUsedCategoryName(name) {
		return fmt.Errorf("category %q already exists", name)
	}
	id, err := s.manager.CreateCategory(name)
	if err != nil {
		return err
	}
	fmt.Printf("Created category %d: %s\n", id, name)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	cat, err := s.category(args[0])
	if err != nil {
		return err
	}
	if err := s.manager.DeleteCategory(cat.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted %s (%d bookmarks, %d tracks)\n", cat.Name, cat.BookmarksCount, cat.TracksCount)
	return nil
}

func runSetVisibility(args []string, visible bool) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	verb := "Hidden"
	if visible {
		verb = "Shown"
	}

	if len(args) == 0 {
		if err := s.manager.SetAllCategoriesVisibility(visible); err != nil {
			return err
		}
		fmt.Printf("%s: all %d categories\n", verb, len(s.manager.Categories()))
		return nil
	}

	for _, arg := range args {
		cat, err := s.category(arg)
		if err != nil {
			return err
		}
		if err := s.manager.SetVisibility(cat.ID, visible); err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", verb, cat.Name)
	}
	return nil
}

// pickResult lets the user choose one result and shows it.
func pickResult(s *session, results []search.Result, query string, names map[int64]string) error {
	chosen := results[0]
	if len(results) > 1 {
		p := picker.New(results, query, func(r search.Result) string {
			if r.Kind == search.KindBookmark {
				return "in " + names[r.Bookmark.CategoryID]
			}
			return fmt.Sprintf("%d bookmarks, %d tracks", r.Category.BookmarksCount, r.Category.TracksCount)
		})
		final, err := tea.NewProgram(p).Run()
		if err != nil {
			return fmt.Errorf("run picker: %w", err)
		}
		var ok bool
		if chosen, ok = final.(picker.Picker).Selected(); !ok {
			return nil
		}
	}

	if chosen.Kind == search.KindCategory {
		sortType := model.SortByName
		if last, ok := s.manager.LastSortingType(chosen.Category.ID); ok {
			sortType = last
		}
		return showSorted(s, chosen.Category, sortType)
	}

	b := chosen.Bookmark
	fmt.Printf("%s\n", b.Name)
	fmt.Printf("  category: %s\n", names[b.CategoryID])
	fmt.Printf("  position: %.6f,%.6f\n", b.Lat, b.Lon)
	if b.Description != "" {
		fmt.Printf("  %s\n", b.Description)
	}
	return nil
}
