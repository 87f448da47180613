package services

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	maxImageWidth = 1200
	webpQuality   = 90
)

// ConvertedImage describes one transcoded image. On fallback Path is the
// original remote URL and FileName is empty.
type ConvertedImage struct {
	Path     string `json:"path"`
	FileName string `json:"file_name"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// Transcoder downloads remote images and re-encodes them as
// width-bounded WebP files in the local images directory.
type Transcoder struct {
	client     *http.Client
	dir        string
	publicPath string
}

func NewTranscoder(dir, publicPath string) *Transcoder {
	return &Transcoder{
		client:     &http.Client{Timeout: 30 * time.Second},
		dir:        dir,
		publicPath: publicPath,
	}
}

// Transcode converts one image. Failures degrade to the original remote
// URL so the page still builds.
func (t *Transcoder) Transcode(ctx context.Context, srcURL, slug string, seq int) ConvertedImage {
	fileName := fmt.Sprintf("%s-image-%d.webp", slug, seq)
	img, err := t.convert(ctx, srcURL, fileName)
	if err != nil {
		slog.Error("image conversion failed, keeping original url", "url", srcURL, "error", err)
		return ConvertedImage{Path: srcURL}
	}
	return img
}

func (t *Transcoder) convert(ctx context.Context, srcURL, fileName string) (ConvertedImage, error) {
	if err := os.MkdirAll(t.dir, 0755); err != nil {
		return ConvertedImage{}, err
	}

	tempPath := filepath.Join(t.dir, fmt.Sprintf("temp-%d", time.Now().UnixNano()))
	if err := t.download(ctx, srcURL, tempPath); err != nil {
		os.Remove(tempPath)
		return ConvertedImage{}, err
	}

	finalPath := filepath.Join(t.dir, fileName)
	width, height, err := encodeWebP(tempPath, finalPath)
	if err != nil {
		os.Remove(tempPath)
		os.Remove(finalPath)
		return ConvertedImage{}, err
	}
	os.Remove(tempPath)

	info, err := os.Stat(finalPath)
	if err != nil {
		return ConvertedImage{}, err
	}

	return ConvertedImage{
		Path:     t.publicPath + "/" + fileName,
		FileName: fileName,
		Width:    width,
		Height:   height,
		Size:     info.Size(),
	}, nil
}

func (t *Transcoder) download(ctx context.Context, srcURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", srcURL, resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.ReadFrom(resp.Body)
	return err
}

func encodeWebP(srcPath, destPath string) (int, int, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return 0, 0, err
	}
	img, _, err := image.Decode(src)
	src.Close()
	if err != nil {
		return 0, 0, fmt.Errorf("decode image: %w", err)
	}

	img = resizeToWidth(img, maxImageWidth)
	bounds := img.Bounds()

	out, err := os.Create(destPath)
	if err != nil {
		return 0, 0, err
	}
	if err := webp.Encode(out, img, &webp.Options{Quality: webpQuality}); err != nil {
		out.Close()
		return 0, 0, fmt.Errorf("encode webp: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, 0, err
	}
	return bounds.Dx(), bounds.Dy(), nil
}

// resizeToWidth scales the image down to maxWidth preserving the aspect
// ratio. Images are never upscaled.
func resizeToWidth(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxWidth {
		return img
	}
	width, height := targetSize(bounds.Dx(), bounds.Dy(), maxWidth)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func targetSize(width, height, maxWidth int) (int, int) {
	if width <= maxWidth {
		return width, height
	}
	scaled := height * maxWidth / width
	if scaled < 1 {
		scaled = 1
	}
	return maxWidth, scaled
}
