package payment

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	MaxProofBytes = 10 << 20
	maxProofEdge  = 2000
	// maxProofPixels bounds the decoded size; a tiny file can declare huge dimensions.
	maxProofPixels = 40_000_000
)

var proofFormats = map[string]imaging.Format{
	"jpg":  imaging.JPEG,
	"jpeg": imaging.JPEG,
	"png":  imaging.PNG,
	"gif":  imaging.GIF,
}

// NormalizeProof decodes the screenshot, applies EXIF orientation, caps
// the longest edge and re-encodes it. Re-encoding also drops metadata.
// It returns the cleaned proof and the object extension to store it under.
func NormalizeProof(p Proof) (Proof, string, error) {
	if len(p.Data) == 0 {
		return Proof{}, "", ErrInvalidProof
	}
	if len(p.Data) > MaxProofBytes {
		return Proof{}, "", ErrProofTooLarge
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(p.Filename), "."))
	format, ok := proofFormats[ext]
	if !ok {
		return Proof{}, "", ErrInvalidProof
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(p.Data))
	if err != nil {
		return Proof{}, "", ErrInvalidProof
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxProofPixels {
		return Proof{}, "", fmt.Errorf("%w: image is %dx%d", ErrInvalidProof, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(p.Data), imaging.AutoOrientation(true))
	if err != nil {
		return Proof{}, "", ErrInvalidProof
	}
	b := img.Bounds()
	if b.Dx() > maxProofEdge || b.Dy() > maxProofEdge {
		img = imaging.Fit(img, maxProofEdge, maxProofEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return Proof{}, "", fmt.Errorf("encode proof: %w", err)
	}

	out := Proof{Filename: p.Filename, Data: buf.Bytes()}
	switch format {
	case imaging.PNG:
		out.ContentType, ext = "image/png", "png"
	case imaging.GIF:
		out.ContentType, ext = "image/gif", "gif"
	default:
		out.ContentType, ext = "image/jpeg", "jpg"
	}
	return out, ext, nil
}

// ReadProof pulls an optional screenshot from a multipart form field.
// found is false when the field is absent.
func ReadProof(r *http.Request, field string) (p Proof, found bool, err error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return Proof{}, false, nil
	}
	if err != nil {
		return Proof{}, false, ErrInvalidProof
	}
	defer file.Close()
	return readPart(file, header)
}

func readPart(file multipart.File, header *multipart.FileHeader) (Proof, bool, error) {
	if header.Size > MaxProofBytes {
		return Proof{}, true, ErrProofTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, MaxProofBytes+1))
	if err != nil {
		return Proof{}, true, err
	}
	if len(data) > MaxProofBytes {
		return Proof{}, true, ErrProofTooLarge
	}
	return Proof{Filename: header.Filename, ContentType: header.Header.Get("Content-Type"), Data: data}, true, nil
}
