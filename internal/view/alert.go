package view

import "errors"

type Alert struct {
	Title   string
	Message string
}

// AlertFor maps an editor error to the dialog shown to the user.
func AlertFor(err error) Alert {
	switch {
	case err == nil:
		return Alert{}
	case errors.Is(err, ErrEmptyNote):
		return Alert{Title: "Empty Note", Message: "Please enter a title or a note."}
	case errors.Is(err, ErrDeleteFailed):
		return Alert{Title: "Error", Message: "Failed to delete note."}
	default:
		return Alert{Title: "Error", Message: "Failed to save note."}
	}
}

func DeleteConfirmation() Alert {
	return Alert{Title: "Delete Note", Message: "Are you sure?"}
}
