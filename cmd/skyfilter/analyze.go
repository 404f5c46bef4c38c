package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ronik-dev/skyfilter"
	"github.com/ronik-dev/skyfilter/utils"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Report sky coverage, color statistics and a suggested threshold band",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntP("clusters", "k", 3, "Number of k-means clusters for threshold suggestion")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	k, _ := cmd.Flags().GetInt("clusters")

	img, err := utils.ReadImage(args[0])
	if err != nil {
		return err
	}
	f, err := skyfilter.New(img, skyfilter.DefaultThresholds())
	if err != nil {
		return err
	}

	stats := f.Stats()
	b := img.Bounds()
	fmt.Printf("File:       %s\n", args[0])
	fmt.Printf("Dimensions: %d x %d\n", b.Dx(), b.Dy())
	fmt.Printf("Sky pixels: %d (%.1f%% coverage)\n", stats.SkyPixels, stats.Coverage*100)
	if stats.SkyPixels == 0 {
		fmt.Println("No sky detected with the default thresholds.")
		return nil
	}
	fmt.Printf("Sky HSV:    H %.3f±%.3f  S %.3f±%.3f  V %.3f±%.3f\n",
		stats.MeanHSV[0], stats.StdHSV[0],
		stats.MeanHSV[1], stats.StdHSV[1],
		stats.MeanHSV[2], stats.StdHSV[2])

	if dom, ok := f.DominantSkyColor(); ok {
		fmt.Printf("Dominant sky color: %s\n", dom.Hex())
	}
	if band, ok := f.SuggestThresholds(k); ok {
		fmt.Printf("Suggested band: hue (%.3f, %.3f)  sat (%.3f, %.3f)  val > %.3f\n",
			band.HueMin, band.HueMax, band.SatMin, band.SatMax, band.ValMin)
	}
	return nil
}
