/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package log

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mattn/go-isatty"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing records to w, filtered by the configured level.
// Every record carries a UTC timestamp and its caller.
func New(w io.Writer, cfg Config) kitlog.Logger {
	var logger kitlog.Logger

	sw := kitlog.NewSyncWriter(w)
	if strings.ToLower(cfg.Format) == jsonFormat {
		logger = kitlog.NewJSONLogger(sw)
	} else {
		logger = kitlog.NewLogfmtLogger(sw)
	}
	return kitlog.With(level.NewFilter(logger, allowOption(cfg.LevelName())), "ts", kitlog.DefaultTimestampUTC, "caller", kitlog.DefaultCaller)
}

// NewDefaultLogger returns the application logger.
// Records go to the configured log file, or to the standard error otherwise,
// colored by level when it is attached to a terminal.
// The returned closer releases the log file.
func NewDefaultLogger(cfg Config) (kitlog.Logger, io.Closer, error) {
	if len(cfg.LogPath) > 0 {
		if err := os.MkdirAll(filepath.Dir(cfg.LogPath), os.ModePerm); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(cfg.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
		if err != nil {
			return nil, nil, err
		}
		return New(f, cfg), f, nil
	}
	var w io.Writer = os.Stderr
	if isatty.IsTerminal(os.Stderr.Fd()) {
		w = newColorWriter(os.Stderr)
	}
	return New(w, cfg), nopCloser{}, nil
}

func allowOption(lv string) level.Option {
	switch lv {
	case debugLevel:
		return level.AllowDebug()
	case warningLevel:
		return level.AllowWarn()
	case errorLevel:
		return level.AllowError()
	case offLevel:
		return level.AllowNone()
	default:
		return level.AllowInfo()
	}
}

type levelColor struct {
	keys [][]byte
	c    *color.Color
}

func newLevelColor(lv string, attrs ...color.Attribute) levelColor {
	c := color.New(attrs...)
	c.EnableColor()
	return levelColor{
		keys: [][]byte{[]byte("level=" + lv), []byte(`"level":"` + lv + `"`)},
		c:    c,
	}
}

// colorWriter paints every record with its level color.
// go-kit loggers emit each record with a single Write call.
type colorWriter struct {
	w      io.Writer
	colors []levelColor
}

func newColorWriter(w io.Writer) *colorWriter {
	return &colorWriter{
		w: w,
		colors: []levelColor{
			newLevelColor(level.DebugValue().String(), color.FgHiBlack),
			newLevelColor(level.WarnValue().String(), color.FgYellow),
			newLevelColor(level.ErrorValue().String(), color.FgRed),
		},
	}
}

func (cw *colorWriter) Write(p []byte) (int, error) {
	for _, lc := range cw.colors {
		for _, k := range lc.keys {
			if !bytes.Contains(p, k) {
				continue
			}
			line := bytes.TrimRight(p, "\n")
			if _, err := lc.c.Fprintln(cw.w, string(line)); err != nil {
				return 0, err
			}
			return len(p), nil
		}
	}
	return cw.w.Write(p)
}
