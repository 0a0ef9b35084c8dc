// Package intake validates a single uploaded resume file and hands it to a callback.
package intake

import "fmt"

// File is one uploaded file held in memory.
type File struct {
	Name         string
	DeclaredType string
	DetectedType string
	Size         int64
	Data         []byte
}

// SizeMB renders the size for display, e.g. "1.25 MB".
func (f File) SizeMB() string {
	return fmt.Sprintf("%.2f MB", float64(f.Size)/float64(1<<20))
}

// State is the display state of the intake.
type State int

const (
	StateEmpty State = iota
	StateSelected
)

func (s State) String() string {
	if s == StateSelected {
		return "selected"
	}
	return "empty"
}

// Intake holds the currently selected file. It is not safe for concurrent use.
type Intake struct {
	rules    Rules
	onSelect func(File)
	state    State
	selected *File
	lastErr  *Rejection
}

// New constructs an Intake. onSelect may be nil.
func New(rules Rules, onSelect func(File)) *Intake {
	return &Intake{rules: rules, onSelect: onSelect}
}

// Rules returns the configured rules.
func (in *Intake) Rules() Rules { return in.rules }

// Select validates f. Accepted files move the intake to StateSelected and are
// passed to the callback once; rejected files leave the state untouched. The
// intake keeps only the file's metadata; the bytes go to the callback.
func (in *Intake) Select(f File) error {
	in.lastErr = nil
	detected, rej := in.rules.Check(f)
	if rej != nil {
		in.lastErr = rej
		return rej
	}
	f.DetectedType = detected
	kept := f
	kept.Data = nil
	in.selected = &kept
	in.state = StateSelected
	if in.onSelect != nil {
		in.onSelect(f)
	}
	return nil
}

// Reject records a failure that happened before a File could be built.
func (in *Intake) Reject(err error) *Rejection {
	in.lastErr = Classify(err, in.rules)
	return in.lastErr
}

// Remove clears the selection and any error.
func (in *Intake) Remove() {
	in.selected = nil
	in.lastErr = nil
	in.state = StateEmpty
}

// State returns the display state.
func (in *Intake) State() State { return in.state }

// Selected returns the accepted file's metadata, if any. Data is always nil.
func (in *Intake) Selected() (File, bool) {
	if in.selected == nil {
		return File{}, false
	}
	return *in.selected, true
}

// Err returns the last rejection, or nil.
func (in *Intake) Err() *Rejection { return in.lastErr }
