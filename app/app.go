/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/simplexmpp/simplexmpp/client"
	"github.com/simplexmpp/simplexmpp/config"
	"github.com/simplexmpp/simplexmpp/event"
	"github.com/simplexmpp/simplexmpp/log"
	"github.com/simplexmpp/simplexmpp/transport"
	"github.com/simplexmpp/simplexmpp/version"
)

const (
	defaultShutDownWaitTime = time.Duration(5) * time.Second
)

var logoStr = []string{
	`       _                 _                                 `,
	`   ___(_)_ __ ___  _ __ | | _____  ___ __ ___  _ __  _ __  `,
	`  / __| | '_ ' _ \| '_ \| |/ _ \ \/ / '_ ' _ \| '_ \| '_ \ `,
	`  \__ \ | | | | | | |_) | |  __/>  <| | | | | | |_) | |_) |`,
	`  |___/_|_| |_| |_| .__/|_|\___/_/\_\_| |_| |_| .__/| .__/ `,
	`                  |_|                         |_|   |_|    `,
}

const usageStr = `
Usage: simplexmpp [options]

Session Options:
    -c, --config <file>    Configuration file path
Common Options:
    -h, --help             Show this message
    -v, --version          Show version
`

// Application encapsulates a simplexmpp session application.
type Application struct {
	output           io.Writer
	args             []string
	stdin            io.Reader
	stdout           io.Writer
	logger           kitlog.Logger
	client           *client.Client
	waitStopCh       chan os.Signal
	closedCh         chan struct{}
	closeOnce        sync.Once
	shutDownWaitSecs time.Duration
}

// New returns a runnable application given an output and a command line arguments array.
func New(output io.Writer, args []string) *Application {
	return &Application{
		output:           output,
		args:             args,
		stdin:            os.Stdin,
		stdout:           os.Stdout,
		waitStopCh:       make(chan os.Signal, 1),
		closedCh:         make(chan struct{}),
		shutDownWaitSecs: defaultShutDownWaitTime,
	}
}

// Run runs a session until either a stop signal is received or the stream is closed.
func (a *Application) Run() error {
	if len(a.args) == 0 {
		return errors.New("empty command-line arguments")
	}
	var configFile string
	var showVersion, showUsage bool

	fs := flag.NewFlagSet("simplexmpp", flag.ExitOnError)
	fs.SetOutput(a.output)

	fs.BoolVar(&showUsage, "help", false, "Show this message")
	fs.BoolVar(&showUsage, "h", false, "Show this message")
	fs.BoolVar(&showVersion, "version", false, "Print version information.")
	fs.BoolVar(&showVersion, "v", false, "Print version information.")
	fs.StringVar(&configFile, "config", "/etc/simplexmpp/simplexmpp.yml", "Configuration file path.")
	fs.StringVar(&configFile, "c", "/etc/simplexmpp/simplexmpp.yml", "Configuration file path.")
	fs.Usage = func() {
		for i := range logoStr {
			_, _ = fmt.Fprintf(a.output, "%s\n", logoStr[i])
		}
		_, _ = fmt.Fprintf(a.output, "%s\n", usageStr)
	}
	_ = fs.Parse(a.args[1:])

	// print usage
	if showUsage {
		fs.Usage()
		return nil
	}
	// print version
	if showVersion {
		_, _ = fmt.Fprintf(a.output, "simplexmpp version: %v\n", version.ApplicationVersion)
		return nil
	}
	// load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	// initialize logger
	logger, logCloser, err := log.NewDefaultLogger(cfg.Logger)
	if err != nil {
		return errors.Wrap(err, "initializing logger")
	}
	defer func() { _ = logCloser.Close() }()
	a.logger = logger

	level.Info(a.logger).Log("msg", "simplexmpp is starting...", "version", version.ApplicationVersion)

	// open stream endpoints
	r, err := a.openInput(cfg.Transport.Input)
	if err != nil {
		return err
	}
	w, err := a.openOutput(cfg.Transport.Output)
	if err != nil {
		if c, ok := r.(io.Closer); ok {
			_ = c.Close()
		}
		return err
	}
	tr := transport.NewStream(r, w, &transport.StreamConfig{
		JID:           cfg.Session.JID,
		MaxStanzaSize: cfg.Transport.MaxStanzaSize,
	}, a.logger)

	// connect session
	hub := event.NewHub()
	subscribeLoggers(hub, a.logger)
	hub.Subscribe(event.Close, a.onClose, event.LowestPriority)

	a.client = client.New(hub, a.logger)
	err = a.client.Connect(&client.Config{
		JID:          cfg.Session.JID,
		SkipPresence: cfg.Session.SkipPresence,
	}, tr)
	if err != nil {
		return err
	}
	level.Info(a.logger).Log("msg", "session started", "jid", cfg.Session.JID, "stream_id", tr.ID())

	// ...wait for stop signal or stream closure
	select {
	case sig := <-a.waitForStopSignal():
		level.Info(a.logger).Log("msg", "received stop signal... shutting down...", "signal", sig.String())
	case <-a.closedCh:
		level.Info(a.logger).Log("msg", "stream closed... shutting down...")
	}
	return a.gracefullyShutdown()
}

func (a *Application) openInput(path string) (io.Reader, error) {
	if path == config.StdStream {
		return struct{ io.Reader }{a.stdin}, nil // never close process stdin
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening input %s", path)
	}
	return f, nil
}

func (a *Application) openOutput(path string) (io.Writer, error) {
	if path == config.StdStream {
		return struct{ io.Writer }{a.stdout}, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening output %s", path)
	}
	return f, nil
}

func (a *Application) onClose(_ *event.Event) {
	a.closeOnce.Do(func() { close(a.closedCh) })
}

func (a *Application) waitForStopSignal() <-chan os.Signal {
	signal.Notify(a.waitStopCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	return a.waitStopCh
}

func (a *Application) gracefullyShutdown() error {
	// wait until application has been shut down
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(a.shutDownWaitSecs))
	defer cancel()

	select {
	case <-a.shutdown():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Application) shutdown() <-chan bool {
	c := make(chan bool, 1)
	go func() {
		a.client.Disconnect()
		<-a.closedCh
		a.client.Shutdown()
		c <- true
	}()
	return c
}
