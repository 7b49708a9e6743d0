// Package textfind locates text in an image so that every detected word or
// text line can be redacted in a single edit.
//
// Two finders are provided:
//
//   - TesseractFinder: word boxes from the Tesseract OCR engine (via
//     gosseract/v2). Only functional in cgo builds with Tesseract and its
//     language data installed.
//   - EdgeFinder: a heuristic that looks for windows with the medium,
//     mostly horizontal edge density typical of printed text. Pure Go and
//     always available.
//
// New returns the best finder for the current build.
package textfind
