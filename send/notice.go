package send

import (
	"errors"

	"imepaste/clipboard"
	"imepaste/shell"
)

type Style int

const (
	Info Style = iota
	Success
	Failure
)

func (s Style) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	}
	return "info"
}

// Notice is the short status message shown after a submission.
type Notice struct {
	Style   Style
	Title   string
	Message string
}

func (n Notice) String() string {
	if n.Message == "" {
		return n.Title
	}
	return n.Title + ": " + n.Message
}

type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

var noticeEmpty = Notice{Style: Info, Title: "Please enter text"}

var noticeBusy = Notice{Style: Info, Title: "A submission is already in progress"}

var noticeClipboardOnly = Notice{
	Style:   Info,
	Title:   "Copied to clipboard",
	Message: "Grant Accessibility permission to enable auto-paste",
}

func pastedNotice(strategy string) Notice {
	return Notice{Style: Success, Title: "Pasted", Message: "Sent via " + strategy + ", text also on clipboard"}
}

// failureNotice maps an error to what the user should do next.
func failureNotice(err error, saved bool) Notice {
	var ce *clipboard.Error
	switch {
	case !saved || errors.As(err, &ce):
		return Notice{Style: Failure, Title: "Failed", Message: err.Error()}
	case shell.IsPermission(err):
		return Notice{Style: Failure, Title: "Paste failed", Message: "Check Accessibility settings. Text saved to clipboard"}
	}
	var se *shell.Error
	if errors.As(err, &se) {
		return Notice{Style: Failure, Title: "Automation failed", Message: "Text saved to clipboard"}
	}
	return Notice{Style: Failure, Title: "Failed", Message: err.Error()}
}
