package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	walkingpad "github.com/walkingpad/padctl"
	"github.com/walkingpad/padctl/internal/config"
)

const speedStepKmh = 0.5

// runTUI drives a split-pane dashboard against client: a status panel on
// the left (connection state, live treadmill state, key legend) and a
// scrolling log pane on the right, following the left/right split and
// SetInputCapture keybinding style of the teacher's cmd/smart_trainer.go.
func runTUI(client *walkingpad.Client, cfg config.Config) {
	app := tview.NewApplication()

	logView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetChangedFunc(func() { app.Draw() })
	logView.SetBorder(true).SetTitle(" Logs ")

	logMessage := func(format string, args ...interface{}) {
		fmt.Fprintf(logView, "[%s] %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	}

	status := tview.NewTextView().
		SetDynamicColors(true).
		SetChangedFunc(func() { app.Draw() })
	status.SetBorder(true).SetTitle(" WalkingPad ")

	currentSpeed := 0.0
	renderStatus := func(state walkingpad.TreadmillState) {
		info, connected := client.SessionInfo()
		codec := "-"
		if connected {
			codec = info.CodecName
		}
		status.Clear()
		fmt.Fprintf(status, "connection: %s\ncodec:      %s\n\nspeed:      %.1f km/h\ntime:       %ds\ndistance:   %.2f km\nsteps:      %d\n\n"+
			"[c] connect  [d] disconnect\n[s] start    [x] stop\n[+/-] speed  [Esc] quit\n",
			client.ConnectionState(), codec, state.SpeedKmh, state.TimeSeconds, state.DistanceKm, state.Steps)
	}
	renderStatus(walkingpad.TreadmillState{})

	client.OnState(func(s walkingpad.TreadmillState) {
		currentSpeed = s.SpeedKmh
		app.QueueUpdateDraw(func() { renderStatus(s) })
	})
	client.OnConnectionStateChange(func(change walkingpad.ConnectionStateChange) {
		logMessage("connection: %s -> %s", change.From, change.To)
		app.QueueUpdateDraw(func() { renderStatus(walkingpad.TreadmillState{}) })
	})
	client.OnError(func(err error) {
		logMessage("error: %v", err)
	})

	flex := tview.NewFlex().
		AddItem(status, 0, 1, false).
		AddItem(logView, 0, 1, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape:
			_ = client.Disconnect()
			app.Stop()
			return nil
		case event.Rune() == 'c':
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				opts := walkingpad.ConnectOptions{
					RememberDevice: cfg.RememberDevice,
					PollIntervalMs: cfg.PollIntervalMs,
				}
				if err := client.Connect(ctx, opts); err != nil {
					logMessage("connect failed: %v", err)
				} else {
					logMessage("connected")
				}
			}()
			return nil
		case event.Rune() == 'd':
			if err := client.Disconnect(); err != nil {
				logMessage("disconnect failed: %v", err)
			}
			return nil
		case event.Rune() == 's':
			if err := client.Start(); err != nil {
				logMessage("start failed: %v", err)
			}
			return nil
		case event.Rune() == 'x':
			if err := client.Stop(); err != nil {
				logMessage("stop failed: %v", err)
			}
			return nil
		case event.Rune() == '+':
			currentSpeed += speedStepKmh
			if err := client.SetSpeed(currentSpeed); err != nil {
				logMessage("set speed failed: %v", err)
			}
			return nil
		case event.Rune() == '-':
			currentSpeed -= speedStepKmh
			if err := client.SetSpeed(currentSpeed); err != nil {
				logMessage("set speed failed: %v", err)
			}
			return nil
		}
		return event
	})

	logMessage("ready — press 'c' to connect")
	if err := app.SetRoot(flex, true).SetFocus(logView).Run(); err != nil {
		panic(err)
	}
}
