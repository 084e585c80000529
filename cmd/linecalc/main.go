// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/linecalc"
	"gitlab.com/fisherprime/linecalc/internal/config"
	"gitlab.com/fisherprime/linecalc/internal/display"
	"gitlab.com/fisherprime/linecalc/internal/watch"
)

var (
	configFile = flag.String("config", "", "configuration file (yaml, toml or json)")
	inputFile  = flag.String("file", "", "file to evaluate, stdin when empty")
	watchFile  = flag.Bool("watch", false, "re-evaluate the file whenever it changes")
	mode       = flag.String("mode", "", "print per-`line` results or a single `document` result")
	locale     = flag.String("locale", "", "locale used to format results, e.g. ko-KR")
	debug      = flag.Bool("debug", false, "enable debug logging")
)

var errWatchStdin = errors.New("-watch requires -file")

func main() {
	flag.Parse()

	logger := logrus.New()
	if err := run(logger); err != nil {
		logger.Fatal(err)
	}
}

func run(logger *logrus.Logger) (err error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return
	}

	if *mode != "" {
		cfg.Mode = *mode
	}
	if *locale != "" {
		cfg.Locale = *locale
	}
	cfg.Debug = cfg.Debug || *debug
	if err = cfg.Validate(); err != nil {
		return
	}

	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
		logger.Debugf("config: %s", spew.Sdump(cfg))
	}

	if *watchFile && *inputFile == "" {
		return errWatchStdin
	}

	formatter, err := display.New(cfg.Locale)
	if err != nil {
		return
	}

	calc := linecalc.New(
		linecalc.WithLogger(logger),
		linecalc.WithDebug(cfg.Debug),
		linecalc.WithMaxDepth(cfg.MaxDepth),
	)

	var sheetOpts []linecalc.SheetOption
	if cfg.Workers > 0 {
		sheetOpts = append(sheetOpts, linecalc.WithWorkers(cfg.Workers))
	}
	sheet, err := linecalc.NewSheet(calc, sheetOpts...)
	if err != nil {
		return
	}
	defer sheet.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	text, err := readInput(*inputFile)
	if err != nil {
		return
	}

	out := newPrinter(os.Stdout, formatter, cfg.Mode == config.ModeDocument)
	if _, err = sheet.Update(ctx, text); err != nil {
		return
	}
	if err = out.All(sheet); err != nil {
		return
	}

	if !*watchFile {
		return
	}

	w := watch.New(*inputFile, func(ctx context.Context, content string) {
		changed, err := sheet.Update(ctx, content)
		if err != nil {
			logger.Warn(err)
			return
		}

		if err = out.Changed(sheet, changed); err != nil {
			logger.Warn(err)
		}
	}, watch.WithDelay(cfg.Debounce), watch.WithLogger(logger))

	return w.Run(ctx)
}

func readInput(path string) (text string, err error) {
	var content []byte
	if path == "" {
		content, err = io.ReadAll(os.Stdin)
	} else {
		content, err = os.ReadFile(path)
	}

	return string(content), err
}
