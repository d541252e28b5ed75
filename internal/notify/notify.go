package notify

import "github.com/gen2brain/beeep"

// Desktop shows native desktop notifications.
type Desktop struct {
	Title string
}

// Notify shows a notification with the given message.
func (d Desktop) Notify(message string) error {
	title := d.Title
	if title == "" {
		title = "clipclip"
	}
	return beeep.Notify(title, message, "")
}
