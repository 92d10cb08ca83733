package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/placemarks/internal/model"
)

var (
	flagShareFormat string
	flagShareTrack  int64
)

var shareCmd = &cobra.Command{
	Use:   "share [category...]",
	Short: "Write categories or a track to files for sharing",
	Long: `Share writes one file per non-empty category into a new directory
under share_dir and prints the paths. Formats: kmz (default), kmb, gpx.

Example:
  placemarks share Lisbon Porto
  placemarks share 3 --format gpx
  placemarks share --track 42`,
	RunE: runShare,
}

func init() {
	shareCmd.Flags().StringVar(&flagShareFormat, "format", "kmz", "file format: kmz, kmb, gpx")
	shareCmd.Flags().Int64Var(&flagShareTrack, "track", 0, "share a single track by id")
}

func runShare(cmd *cobra.Command, args []string) error {
	fileType, err := model.ParseFileType(flagShareFormat)
	if err != nil {
		return err
	}
	if len(args) == 0 && flagShareTrack == 0 {
		return errors.New("nothing to share: pass categories or --track")
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	if flagShareTrack != 0 {
		s.manager.PrepareTrackForSharing(flagShareTrack, fileType)
	} else {
		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			cat, err := s.category(arg)
			if err != nil {
				return err
			}
			ids = append(ids, cat.ID)
		}
		s.manager.PrepareCategoriesForSharing(ids, fileType)
	}
	s.settle()

	result := s.events.shared
	if result == nil {
		return errors.New("sharing did not report a result")
	}
	if flagJSON {
		return printJSON(result)
	}
	if result.Code != model.SharingSuccess {
		return fmt.Errorf("sharing failed (%s): %s", result.Code, result.Diagnostic)
	}
	for _, f := range result.Files {
		fmt.Println(f.Path)
	}
	return nil
}
