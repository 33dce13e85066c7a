// This file is part of Banglemu.
//
// Banglemu is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Banglemu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Banglemu.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/banglemu/banglemu/bridge"
	"github.com/banglemu/banglemu/config"
	"github.com/banglemu/banglemu/device"
	"github.com/banglemu/banglemu/device/wasm"
	"github.com/banglemu/banglemu/emulation"
	"github.com/banglemu/banglemu/logger"
	"github.com/banglemu/banglemu/metrics"
	"github.com/banglemu/banglemu/modalflag"
	"github.com/banglemu/banglemu/paths"
	"github.com/banglemu/banglemu/router"
	"github.com/banglemu/banglemu/statsview"
	"github.com/banglemu/banglemu/storage"
	"github.com/banglemu/banglemu/terminal"
	"github.com/banglemu/banglemu/userinput"
	"github.com/banglemu/banglemu/version"
)

// exit values.
const (
	exitParse = 10
	exitMode  = 20
)

// the number of log entries printed after an error.
const logTail = 10

func main() {
	os.Exit(launch(os.Args[1:], os.Stdout, os.Stderr))
}

// launch parses the command line and runs the selected mode. returns the exit
// value.
func launch(args []string, stdout io.Writer, stderr io.Writer) int {
	md := &modalflag.Modes{Output: stdout}
	md.NewArgs(args)
	md.AddSubModes("RUN", "HEADLESS", "STORAGE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0
	case modalflag.ParseError:
		fmt.Fprintf(stderr, "* error: %v\n", err)
		return exitParse
	}

	switch md.Mode() {
	case "RUN":
		err = run(md, stdout, false)
	case "HEADLESS":
		err = run(md, stdout, true)
	case "STORAGE":
		err = buildStorage(md, stdout)
	case "VERSION":
		err = showVersion(md, stdout)
	}

	if err != nil {
		fmt.Fprintf(stderr, "* error in %s mode: %s\n", md.String(), err)
		logger.Tail(stderr, logTail)
		return exitMode
	}

	return 0
}

// flags that change the configuration.
type overrides struct {
	config  *string
	console *string
	tick    *time.Duration
	metrics *string
}

func addOverrides(md *modalflag.Modes) overrides {
	return overrides{
		config:  md.AddString("config", "", fmt.Sprintf("configuration file (default %s)", config.DefaultPath())),
		console: md.AddString("console", "", fmt.Sprintf("console bridge address (default %s)", bridge.DefaultAddress)),
		tick:    md.AddDuration("tick", 0, fmt.Sprintf("time between ticks (default %s)", config.DefaultTick)),
		metrics: md.AddString("metrics", "", "serve prometheus metrics on the address"),
	}
}

// loadConfig loads the configuration file and applies the flags and the
// module argument. a module named on the command line replaces the module in
// the configuration file.
func loadConfig(md *modalflag.Modes, ovr overrides) (config.Config, string, error) {
	cfg, err := config.Load(*ovr.config)
	if err != nil {
		return config.Config{}, "", err
	}

	if *ovr.console != "" {
		cfg.Console = *ovr.console
	}
	if *ovr.tick != 0 {
		cfg.Tick = config.Duration{Duration: *ovr.tick}
	}
	if *ovr.metrics != "" {
		cfg.Metrics = *ovr.metrics
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, "", err
	}

	module := cfg.ModulePath()
	switch len(md.RemainingArgs()) {
	case 0:
		if module == "" {
			return config.Config{}, "", fmt.Errorf("firmware module required for %s mode", md)
		}
	case 1:
		module = md.GetArg(0)
	default:
		return config.Config{}, "", fmt.Errorf("too many arguments for %s mode", md)
	}

	return cfg, module, nil
}

func run(md *modalflag.Modes, stdout io.Writer, headless bool) error {
	md.NewMode()

	ovr := addOverrides(md)
	logFile := md.AddString("log", "", "echo the log to a file")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run the statistics server on %s", statsview.DefaultAddress))

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	cfg, module, err := loadConfig(md, ovr)
	if err != nil {
		return err
	}

	// the terminal belongs to the screen in RUN mode so the log is only
	// echoed to the terminal in HEADLESS mode
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			return err
		}
		defer f.Close()
		logger.SetEcho(f)
	} else if headless {
		logger.SetEcho(os.Stderr)
	}
	defer logger.SetEcho(nil)

	files, err := cfg.Files()
	if err != nil {
		return err
	}

	var mtrcs *metrics.Metrics
	if cfg.Metrics != "" {
		mtrcs = metrics.NewMetrics()
	}

	dev, err := device.NewDevice(context.Background(), wasm.Loader(module))
	if err != nil {
		return err
	}
	dev.SetStorageOffset(cfg.Storage.Offset)

	// once the loop is running it owns the device and closes it when it ends
	running := false
	defer func() {
		if !running {
			_ = dev.Close()
		}
	}()

	rtr := router.NewRouter(router.DefaultQueueSize)

	loop, err := emulation.NewLoop(dev, rtr.Events(), emulation.Config{
		Files:    files,
		Capacity: cfg.Storage.Capacity,
		Gesture:  cfg.GestureConfig(),
	})
	if err != nil {
		return err
	}
	loop.SetMetrics(mtrcs)

	brdg, err := bridge.Listen(cfg.Console, rtr)
	if err != nil {
		return err
	}
	brdg.SetMetrics(mtrcs)
	loop.SetConsole(brdg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	grp, ctx := errgroup.WithContext(ctx)

	if mtrcs != nil {
		srv, err := metrics.Listen(cfg.Metrics, mtrcs)
		if err != nil {
			_ = brdg.Close()
			return err
		}
		grp.Go(func() error {
			return srv.Serve(ctx)
		})
	}

	if *stats {
		if !statsview.Available() {
			logger.Log(logger.Allow, "statsview", "not available in this build")
		}
		statsview.Launch(ctx, statsview.DefaultAddress)
	}

	if headless {
		loop.SetRenderer(terminal.NewHeadless(stdout))
	} else {
		term, err := terminal.Open(os.Stdin, os.Stdout)
		if err != nil {
			_ = brdg.Close()
			return err
		}
		defer term.Close()
		loop.SetRenderer(term.Screen())

		ctl := userinput.NewControllers(ctx, rtr)
		defer ctl.Stop()

		grp.Go(func() error {
			return term.Run(ctx)
		})
		grp.Go(func() error {
			return ignoreDone(ctx, term.ReadInput(ctx, ctl.Handle))
		})
	}

	// an interrupt signal is a quit event. in RUN mode the terminal is in raw
	// mode and Ctrl-C arrives as a key press
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	grp.Go(func() error {
		select {
		case <-intChan:
			return ignoreDone(ctx, rtr.Push(ctx, router.Signal, router.Quit{}))
		case <-ctx.Done():
			return nil
		}
	})

	grp.Go(func() error {
		return brdg.Serve(ctx)
	})

	grp.Go(func() error {
		return rtr.RunTicker(ctx, cfg.Tick.Duration)
	})

	// the end of the loop ends everything else
	running = true
	grp.Go(func() error {
		defer cancel()
		return loop.Run(ctx)
	})

	err = grp.Wait()

	logger.Logf(logger.Allow, "banglemu", "%d ticks coalesced, %d console replacements, %d console messages dropped",
		rtr.Coalesced(), brdg.Replaced(), brdg.Dropped())

	return err
}

// ignoreDone returns nil if the error is the result of the context being
// done.
func ignoreDone(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

func buildStorage(md *modalflag.Modes, stdout io.Writer) error {
	md.NewMode()

	cfgFile := md.AddString("config", "", fmt.Sprintf("configuration file (default %s)", config.DefaultPath()))
	output := md.AddString("o", "", "output file (default is a unique filename)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	files, err := cfg.Files()
	if err != nil {
		return err
	}

	img, err := storage.Build(files, cfg.Storage.Capacity)
	if err != nil {
		return err
	}

	fn := *output
	if fn == "" {
		fn = paths.UniqueFilename("storage", "", "bin")
	}

	if err := os.WriteFile(fn, img.Data, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "* %d files written to %s (%d bytes)\n", len(files), fn, img.Len())

	// list the files as they will be seen by the device
	listing, err := storage.Decode(img.Data)
	if err != nil {
		return err
	}
	for _, f := range listing {
		fmt.Fprintf(stdout, "%-28s %8d\n", f.Name, len(f.Content))
	}

	return nil
}

func showVersion(md *modalflag.Modes, stdout io.Writer) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	v, r, _ := version.Version()
	fmt.Fprintf(stdout, "%s %s\n", version.ApplicationName, v)
	if *revision && r != "" {
		fmt.Fprintln(stdout, r)
	}

	return nil
}
