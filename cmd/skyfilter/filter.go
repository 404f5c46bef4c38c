package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ronik-dev/skyfilter"
	"github.com/ronik-dev/skyfilter/utils"
)

var filterCmd = &cobra.Command{
	Use:   "filter [path]",
	Short: "Whiten the sky in an image or a directory of images",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilter,
}

func init() {
	filterCmd.Flags().StringP("out-dir", "o", "filtered_images", "Output directory for filtered images")
	filterCmd.Flags().BoolP("force", "f", false, "Write into an existing output directory, overwriting files")
	rootCmd.AddCommand(filterCmd)
}

// collectInputs resolves the positional path into the list of image
// files to process: the file itself, or the images directly inside the
// directory.
func collectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := utils.ListImages(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no image files in %s", path)
	}
	return files, nil
}

// ensureOutDir creates outDir, or refuses to reuse an existing one
// unless force is set. The old interactive overwrite prompt maps to the
// --force flag so the tool stays usable in scripts.
func ensureOutDir(outDir string, force bool) error {
	info, err := os.Stat(outDir)
	switch {
	case os.IsNotExist(err):
		return os.MkdirAll(outDir, 0755)
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%s exists and is not a directory", outDir)
	case !force:
		return fmt.Errorf("%s already exists, files may be overwritten (pass --force to proceed)", outDir)
	}
	return nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out-dir")
	force, _ := cmd.Flags().GetBool("force")

	files, err := collectInputs(args[0])
	if err != nil {
		return err
	}
	if err := ensureOutDir(outDir, force); err != nil {
		return err
	}

	for _, file := range files {
		img, err := utils.ReadImage(file)
		if err != nil {
			return err
		}
		filtered, err := skyfilter.WhitenSky(img)
		if err != nil {
			return fmt.Errorf("filtering %s: %w", file, err)
		}
		dst := filepath.Join(outDir, filepath.Base(file))
		if err := utils.SaveImage(filtered, dst); err != nil {
			return fmt.Errorf("writing %s: %w", dst, err)
		}
		b := filtered.Bounds()
		fmt.Printf("Filtered %dx%d %s → %s\n", b.Dx(), b.Dy(), file, dst)
	}
	return nil
}
