package control

import "github.com/abcdqfr/wallpaper-shuffle/internal/engine"

// WorkingText is shown while a Blocking command is outstanding.
const WorkingText = "Working..."

// Readout is the status line shown by the view. It belongs to the
// interactive thread and is not safe for concurrent use.
type Readout struct {
	text  string
	prior string
	busy  bool
}

// NewReadout returns a Readout showing text.
func NewReadout(text string) Readout {
	return Readout{text: text}
}

// Text returns what the status line shows now.
func (r *Readout) Text() string { return r.text }

// Busy reports whether input is suspended for a Blocking call.
func (r *Readout) Busy() bool { return r.busy }

// Set replaces the status text.
func (r *Readout) Set(text string) { r.text = text }

// Begin suspends input and shows WorkingText, remembering the current text.
func (r *Readout) Begin() {
	r.prior = r.text
	r.text = WorkingText
	r.busy = true
}

// Finish restores input. On success the text from before Begin comes back;
// on failure the error stays visible until the next action replaces it.
func (r *Readout) Finish(res engine.Result) {
	r.busy = false
	if res.OK() {
		r.text = r.prior
	} else {
		r.text = "Error: " + res.ErrorText()
	}
	r.prior = ""
}

// Note shows text without disturbing a Blocking call in progress: while
// busy it replaces what Finish brings back on success.
func (r *Readout) Note(text string) {
	if r.busy {
		r.prior = text
		return
	}
	r.text = text
}
