// Package source acquires and decodes the image an editing session works on.
//
// A Source turns a target string (a file path or an http(s) URL) into a
// Decoded image. Decoding honours the EXIF orientation tag, so photos taken in
// portrait come out upright, and always yields an *image.NRGBA anchored at
// (0,0).
//
// # Example Usage
//
//	src := source.NewCache(source.NewAutoSource(10 * time.Second))
//	dec, err := src.Acquire(ctx, "https://example.com/photo.jpg")
//	if err != nil {
//	    return err
//	}
//	// dec.Image is an independent copy owned by the caller.
package source
