// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package imaging derives fixed-size preview images from uploaded artwork.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	// Registered decoders for uploads.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// ErrInvalidSize is returned for non-positive target dimensions.
var ErrInvalidSize = errors.New("imaging: width and height must be positive")

/*
Thumbnail decodes a PNG, JPEG, GIF or WebP image from src, scales it to exactly
width x height and writes the result to dst as PNG.

The aspect ratio is not preserved: catalogue cards have a fixed geometry and
the source artwork is stretched to fill it.

Returns:
  - error: decode failures, ErrInvalidSize or encode failures
*/
func Thumbnail(src io.Reader, dst io.Writer, width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidSize
	}

	source, format, err := image.Decode(src)
	if err != nil {
		return fmt.Errorf("imaging: failed to decode source: %w", err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(canvas, canvas.Bounds(), source, source.Bounds(), draw.Src, nil)

	if err := png.Encode(dst, canvas); err != nil {
		return fmt.Errorf("imaging: failed to encode %s thumbnail: %w", format, err)
	}
	return nil
}
