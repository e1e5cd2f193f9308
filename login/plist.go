// Package login toggles starting the desktop window at login.
package login

import (
	"errors"
	"fmt"
	"html"
)

var ErrUnsupported = errors.New("login: start at login not supported on this platform")

// plist renders the LaunchAgent definition for exe running in GUI mode.
func plist(exe string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>com.imepaste.app</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
		<string>-gui</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>ProcessType</key>
	<string>Interactive</string>
	<key>LimitLoadToSessionType</key>
	<string>Aqua</string>
</dict>
</plist>
`, html.EscapeString(exe))
}
