// Package imaging normalizes uploaded images before they are forwarded to
// the membership backend: EXIF rotation is baked in, oversized photos are
// downscaled, and WebP is re-encoded as JPEG since pure Go cannot encode it.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"memberdesk/internal/backend"
)

// MaxDimension is the largest edge an uploaded photo may keep. Anything
// bigger is downscaled before upload; phone camera originals routinely
// exceed what the backend needs to store.
const MaxDimension = 2560

// jpegQuality is used when re-encoding JPEG output.
const jpegQuality = 95

// Normalize decodes, rotates, downscales and re-encodes an uploaded image.
// Unsupported or undecodable data is rejected.
func Normalize(file backend.ImageFile) (backend.ImageFile, error) {
	format := detectFormat(file.Data)
	if format == "" {
		return backend.ImageFile{}, fmt.Errorf("unsupported image format for %q", file.Filename)
	}

	img, err := imaging.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return backend.ImageFile{}, fmt.Errorf("decoding %q: %w", file.Filename, err)
	}

	orientation := readExifOrientation(bytes.NewReader(file.Data))
	img = applyOrientation(img, orientation)

	bounds := img.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	// Re-encoding drops EXIF metadata, including GPS tags.
	data, outFormat, err := encodeImage(img, format)
	if err != nil {
		return backend.ImageFile{}, fmt.Errorf("encoding %q: %w", file.Filename, err)
	}

	return backend.ImageFile{
		Filename:    rewriteExtension(file.Filename, outFormat),
		ContentType: formatToMimeType(outFormat),
		Data:        data,
	}, nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image, returning the bytes and the output format.
// WebP input comes back as JPEG.
func encodeImage(img image.Image, format string) ([]byte, string, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "png", nil
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "gif", nil
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "jpeg", nil
	}
}

// formatToMimeType converts a format string to a MIME type.
func formatToMimeType(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

// rewriteExtension fixes the filename extension when re-encoding changes
// the output format.
func rewriteExtension(filename, format string) string {
	wantExt := "." + format
	if format == "jpeg" {
		wantExt = ".jpg"
	}

	if idx := strings.LastIndex(filename, "."); idx > 0 {
		ext := strings.ToLower(filename[idx:])
		if ext == wantExt || (format == "jpeg" && ext == ".jpeg") {
			return filename
		}
		return filename[:idx] + wantExt
	}
	return filename + wantExt
}
