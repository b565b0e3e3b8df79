// Package log is a thin façade over go-ethereum's structured logger,
// exposing the SetLogger(verbosity, json, color) shape this module's
// command-line entry points use.
package log

import (
	"os"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// SetLogger configures the root logger. verbosity follows go-ethereum's
// log.Lvl* scale (0=Crit .. 5=Trace); jsonOutput selects a JSON handler
// over the default terminal handler; color toggles ANSI colorization of
// the terminal handler.
func SetLogger(verbosity int, jsonOutput, color bool) {
	var handler ethlog.Handler
	if jsonOutput {
		handler = ethlog.StreamHandler(os.Stderr, ethlog.JSONFormat())
	} else {
		handler = ethlog.StreamHandler(os.Stderr, ethlog.TerminalFormat(color))
	}
	ethlog.Root().SetHandler(ethlog.LvlFilterHandler(ethlog.Lvl(verbosity), handler))
}

func Trace(msg string, ctx ...interface{}) { ethlog.Trace(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { ethlog.Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { ethlog.Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { ethlog.Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { ethlog.Error(msg, ctx...) }
func Crit(msg string, ctx ...interface{})  { ethlog.Crit(msg, ctx...) }
