package main

import (
	"fmt"
	"io"
	"sync"

	"imepaste/send"
)

// lineNotifier writes each notice as one line so scripted callers can match
// on it: "NOTICE <style> <title>[: <message>]".
func lineNotifier(w io.Writer) send.Notifier {
	var mu sync.Mutex
	return send.NotifierFunc(func(n send.Notice) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "NOTICE %s %s\n", n.Style, n)
	})
}
