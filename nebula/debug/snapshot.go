package debug

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"

	"github.com/nebulaemu/nebula/nebula/display"
	"github.com/nebulaemu/nebula/nebula/video"
)

// FrameImage converts a framebuffer into an RGBA image at its native size.
func FrameImage(frame *video.FrameBuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, video.FramebufferWidth, video.FramebufferHeight))
	for i, pixel := range frame.ToSlice() {
		idx := i * display.RGBABytesPerPixel
		img.Pix[idx], img.Pix[idx+1], img.Pix[idx+2] = display.Components(pixel)
		img.Pix[idx+3] = display.FullAlpha
	}
	return img
}

// ScaleImage enlarges img by an integer factor without smoothing.
func ScaleImage(img image.Image, scale int) image.Image {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// TakeSnapshot handles the snapshot key for interactive backends.
func TakeSnapshot(frame *video.FrameBuffer) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	if _, err := SaveFramePNGToDir(frame, "nebula_snapshot", "", display.DefaultPixelScale); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// SaveFramePNGToDir saves a framebuffer as a timestamped PNG in directory
// (the working directory when empty) and returns the written path.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string, scale int) (string, error) {
	timestamp := time.Now().Format("20060102_150405.000")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	if err := SaveFramePNG(frame, filePath, scale); err != nil {
		return "", err
	}

	slog.Info("Snapshot saved", "path", filePath, "scale", scale, "format", "PNG")
	return filePath, nil
}

// SaveFramePNG writes the frame to path, scaled by scale.
func SaveFramePNG(frame *video.FrameBuffer, path string, scale int) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := png.Encode(file, ScaleImage(FrameImage(frame), scale)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
