package convert

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/cyclopcam/solo2yolo/pkg/solo"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// checkImage reads the header of an image file, and returns a list of ways in which
// it disagrees with the capture that produced it. These are advisory only.
func checkImage(filename string, capture *solo.RGBCapture) []string {
	cfg, format, err := readImageHeader(filename)
	if err != nil {
		return []string{err.Error()}
	}

	problems := []string{}
	if declared := normalizeFormat(capture.ImageFormat); declared != "" && declared != format {
		problems = append(problems, fmt.Sprintf("image is %v, but capture says %v", format, capture.ImageFormat))
	}
	w, h := capture.Dimension.X(), capture.Dimension.Y()
	if float64(cfg.Width) != w || float64(cfg.Height) != h {
		problems = append(problems, fmt.Sprintf("image is %v x %v, but capture says %v x %v", cfg.Width, cfg.Height, w, h))
	}
	return problems
}

func readImageHeader(filename string) (image.Config, string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return image.Config{}, "", err
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("unable to read image header: %w", err)
	}
	return cfg, format, nil
}

// imageExtension picks the extension of the copied image: the capture's imageFormat,
// then the extension of the source file, and lastly the format found in the file's header.
func imageExtension(filename string, capture *solo.RGBCapture) (string, error) {
	if capture.ImageFormat != "" {
		return capture.ImageFormat, nil
	}
	if ext := strings.TrimPrefix(filepath.Ext(capture.Filename), "."); ext != "" {
		return ext, nil
	}
	_, format, err := readImageHeader(filename)
	if err != nil {
		return "", fmt.Errorf("%w: '%v' has no extension, and %v", ErrUnknownImageFormat, filename, err)
	}
	if format == "jpeg" {
		return "jpg", nil
	}
	return format, nil
}

// normalizeFormat maps a SOLO image format onto the names used by the image package
func normalizeFormat(f string) string {
	f = strings.ToLower(f)
	switch f {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return f
}
