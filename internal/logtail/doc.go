// Package logtail reads the tail of wallshuffle's own log for the in-app
// log pane.
//
// # Reading Log Files
//
// Read returns the last maxLines lines using a ring buffer, so memory is
// O(maxLines) regardless of file size:
//
//	1. Allocate ring buffer of size maxLines
//	2. For each line in file:
//	   - Store line at current index
//	   - Increment index (wrapping at maxLines)
//	   - Track total lines seen
//	3. Return the buffer starting at the oldest line
//
// A non-positive maxLines reads the whole file. A missing file is not an
// error; the log may simply not exist yet.
//
// # Parsing
//
// The logger writes key=value lines:
//
//	time="2026-10-19T09:12:01" level=info msg="engine call finished" cat=engine command="load beach" exit_code=0
//
// Parse splits such a line into an Entry (time, level, category, message
// and the remaining fields in order). Lines that are not key=value, such as
// a panic trace, come back with Msg set to the raw text and always pass
// level filters.
//
// Tail combines the two and filters by minimum level and category, which
// is what the log pane's filter keys drive.
package logtail
