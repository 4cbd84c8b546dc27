package texture

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-explorer/common"
	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// decodeImage picks a decoder from the leading bytes; tga has no magic number so it is
// selected by extension.
func decodeImage(data []byte, source string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return jpeg.Decode(r)
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return png.Decode(r)
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return webp.Decode(r)
	case strings.EqualFold(filepath.Ext(stripQuery(source)), ".tga"):
		return tga.Decode(r)
	}
	return nil, fmt.Errorf("unrecognized image format")
}

func stripQuery(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 {
		return source[:i]
	}
	return source
}

// downscale converts img to a zero-origin RGBA image no wider than maxWidth,
// keeping the aspect ratio. The bool reports whether the image was resized.
func downscale(img image.Image, maxWidth int) (*image.RGBA, bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if maxWidth > 0 && w > maxWidth {
		nh := (h*maxWidth + w/2) / w
		if nh < 1 {
			nh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst, true
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*w {
		return rgba, false
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst, false
}

func toStaging(rgba *image.RGBA, source string) *common.TextureStagingData {
	b := rgba.Bounds()
	pixels := make([]byte, len(rgba.Pix))
	copy(pixels, rgba.Pix)
	return &common.TextureStagingData{
		Pixels: pixels,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Source: source,
	}
}

// cachePath names the webp cache entry for source.
func cachePath(dir, source string) string {
	sum := sha1.Sum([]byte(source))
	return filepath.Join(dir, hex.EncodeToString(sum[:])+".webp")
}

func readDiskCache(dir, source string) (image.Image, error) {
	f, err := os.Open(cachePath(dir, source))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := webp.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "decode cached webp")
	}
	return img, nil
}

// writeDiskCache encodes img into a temporary file and renames it into place so a
// concurrent reader never sees a partial entry.
func writeDiskCache(dir, source string, img image.Image) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "create cache dir")
	}
	tmp, err := os.CreateTemp(dir, "tex-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create cache file")
	}
	defer os.Remove(tmp.Name())

	if err := nativewebp.Encode(tmp, img, nil); err != nil {
		tmp.Close()
		return errors.Wrap(err, "encode webp")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close cache file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), cachePath(dir, source)), "commit cache file")
}
