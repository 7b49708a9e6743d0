// Package session implements the editing session: the top-level object a host
// drives with pointer, keyboard and toolbar input.
//
// A Session owns one raster buffer, the effect engine bound to it, the
// selection state machine and the undo history. It is created only after the
// source image decoded successfully, and the first history entry is always
// the pristine image.
//
// # Concurrency
//
// A Session is single-threaded and not safe for concurrent use. Hosts must
// serialise calls, typically by driving it from one event loop. Listeners are
// invoked synchronously on the calling goroutine.
//
// # Lifecycle
//
// RequestClose consults the ConfirmationPrompt when there are edits to lose.
// Once closed, every mutating call is a no-op and calls that need pixels
// return ErrClosed.
package session
