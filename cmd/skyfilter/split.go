package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ronik-dev/skyfilter"
	"github.com/ronik-dev/skyfilter/utils"
)

var splitCmd = &cobra.Command{
	Use:   "split [file]",
	Short: "Save per-channel grayscale images for threshold tuning",
	Args:  cobra.ExactArgs(1),
	RunE:  runSplit,
}

func init() {
	splitCmd.Flags().Bool("hsv", false, "Split into HSV channels instead of RGB")
	splitCmd.Flags().StringP("out-dir", "o", ".", "Directory for the channel images")
	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	doHSV, _ := cmd.Flags().GetBool("hsv")
	outDir, _ := cmd.Flags().GetString("out-dir")

	img, err := utils.ReadImage(args[0])
	if err != nil {
		return err
	}
	f, err := skyfilter.New(img, skyfilter.DefaultThresholds())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	var channels []*image.Gray
	var prefix string
	if doHSV {
		channels = f.HSVChannels()
		prefix = base + "_hsv"
	} else {
		channels = f.RGBChannels()
		prefix = base + "_rgb"
	}
	if err := utils.SaveGrayImages(channels, outDir, prefix); err != nil {
		return err
	}
	fmt.Printf("Wrote %d channel images to %s\n", len(channels), outDir)
	return nil
}
