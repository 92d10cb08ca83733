package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/placemarks/internal/model"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Long: `List prints every category with its id, visibility and number of
bookmarks and tracks.

Example:
  placemarks list
  placemarks list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	categories := s.manager.Categories()
	if flagJSON {
		return printJSON(categories)
	}
	if len(categories) == 0 {
		fmt.Println("No categories")
		return nil
	}
	fmt.Println(categoryTable(categories))
	return nil
}

func categoryTable(categories []model.Category) string {
	rows := make([][]string, len(categories))
	for i, c := range categories {
		visible := "yes"
		if !c.Visible {
			visible = "no"
		}
		rows[i] = []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			visible,
			strconv.Itoa(c.BookmarksCount),
			strconv.Itoa(c.TracksCount),
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "VISIBLE", "BOOKMARKS", "TRACKS").
		Rows(rows...).
		String()
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
