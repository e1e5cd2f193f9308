//go:build gui

package main

import (
	"context"
	"fmt"
	"os"

	"imepaste/config"
	"imepaste/gui"
	"imepaste/hotkey"
	"imepaste/log"
	"imepaste/send"
)

func runGUI(ctx context.Context, cfg *config.Config, ap **app) int {
	var a *app
	opts := gui.Options{
		Submit:      func(text, target string) send.Outcome { return a.submitTo(ctx, text, target) },
		Frontmost:   func() string { return a.frontmost(ctx) },
		ShowCount:   cfg.ShowCharCount,
		Target:      cfg.TargetApp,
		HotkeyLabel: hotkey.Label,
	}
	if cfg.PreserveHistory {
		opts.History = func() []string { return a.recent() }
		opts.ClearHistory = func() { a.clearHistory() }
	}
	w := gui.New(opts)
	a = newApp(cfg, systemDeps(cfg, w))
	*ap = a

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		log.Warnf("hotkey %s unavailable: %v", hotkey.Label, err)
	} else {
		defer hk.Unregister()
		go hotkey.Watch(ctx, hk, w.Show)
	}

	go func() {
		<-ctx.Done()
		w.Quit()
	}()

	if err := w.Run(); err != nil {
		log.Errorf("GUI error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
