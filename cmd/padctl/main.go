// Command padctl is a terminal dashboard for a single WalkingPad-family
// treadmill: scan/connect, start/stop, set-speed, and a live status and
// log view, grounded on the teacher's cmd/smart_trainer.go split-pane UI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"tinygo.org/x/bluetooth"

	walkingpad "github.com/walkingpad/padctl"
	"github.com/walkingpad/padctl/internal/ble"
	"github.com/walkingpad/padctl/internal/config"
	"github.com/walkingpad/padctl/internal/logging"
	"github.com/walkingpad/padctl/internal/storage"
)

func main() {
	fs := pflag.NewFlagSet("padctl", pflag.ExitOnError)
	config.RegisterFlags(fs)
	dryRun := fs.Bool("dry-run", false, "drive an in-memory fake treadmill instead of real hardware")
	configDir := fs.String("config-dir", ".", "directory to look for config.yaml in")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(*configDir, fs)
	must("load config", err)

	var logger logging.Logger
	if cfg.LogPath != "" {
		logger = logging.NewRotatingLogger(cfg.LogPath, 10, 3, 28)
	} else {
		logger = logging.Default()
	}

	var store storage.DeviceIDStore
	if cfg.RememberDevice {
		store = storage.NewFileStore(storage.DefaultFileStorePath(), logger)
	} else {
		store = storage.NoopStore{}
	}

	adapter := buildAdapter(*dryRun, logger)
	client := walkingpad.NewClient(adapter, logger, store)

	runTUI(client, cfg)
}

func buildAdapter(dryRun bool, logger logging.Logger) ble.Adapter {
	if dryRun {
		notify := ble.NewFakeCharacteristic("fe02", true, false, false, false)
		write := ble.NewFakeCharacteristic("fe01", false, false, true, false)
		svc := ble.NewFakeService("fe00", write, notify)
		return ble.NewFakeAdapter(svc)
	}
	return ble.NewTinygoAdapter(bluetooth.DefaultAdapter, logger, 0)
}

func must(action string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "padctl: failed to %s: %v\n", action, err)
		os.Exit(1)
	}
}
