// Package logtail reads the tail of the application log for the in-app log
// overlay.
//
// # Reading Log Files
//
// Read extracts the last maxLines from a file with a ring buffer, so memory
// stays O(maxLines) regardless of file size:
//
//  1. Allocate ring buffer of size maxLines
//  2. For each line in file, store it at the current index and advance
//     (wrapping at maxLines)
//  3. Return the buffer starting from the oldest retained line
//
// Read returns nil, nil for non-existent files. Other errors are wrapped.
//
// # Formatting
//
// The application logs JSON lines through zerolog. Parse decodes one line into
// an Entry and Entry.String renders it compactly:
//
//	{"level":"info","imsi":"001","time":"...","message":"subscriber deleted"}
//	14:32:15 INF subscriber deleted imsi=001
//
// Lines that are not JSON pass through unchanged. Coloring by level is left to
// the UI.
package logtail
