package control

// Error describes the validation state shown above a control. The zero value
// means no error.
type Error struct {
	marker  bool
	message string
}

// ErrorMarker flags the control as invalid without a message. It renders as a
// bare asterisk.
func ErrorMarker() Error {
	return Error{marker: true}
}

// ErrorMessage attaches msg to the control. An empty msg is the same as no
// error.
func ErrorMessage(msg string) Error {
	return Error{message: msg}
}

// IsZero reports whether the error renders nothing.
func (e Error) IsZero() bool {
	return !e.marker && e.message == ""
}

// IsMarker reports whether the error is the message-less marker.
func (e Error) IsMarker() bool {
	return e.marker
}

// Message returns the attached message, if any.
func (e Error) Message() string {
	return e.message
}

func (e Error) text() (string, bool) {
	switch {
	case e.marker:
		return errorMarker, true
	case e.message != "":
		return errorPrefix + e.message, true
	default:
		return "", false
	}
}

// State holds the attributes shared by every control. Variants receive a copy
// when rendering their input.
type State struct {
	Label        string
	Caption      string
	Error        Error
	Name         string
	Value        string
	ID           string
	Disabled     bool
	ControlID    string
	ControlStyle string
}
