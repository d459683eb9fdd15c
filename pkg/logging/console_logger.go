package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// ConsoleLogger writes human-readable, level-colored lines.
type ConsoleLogger struct {
	mu     *sync.Mutex
	output io.Writer
	level  LogLevel
	fields map[string]any

	gray, debug, info, warn, fail *color.Color
}

// NewConsoleLogger creates a console logger writing to w at the
// given minimum level. A nil writer means os.Stderr. Colors follow
// fatih/color's terminal detection unless disabled with NoColor.
func NewConsoleLogger(w io.Writer, level LogLevel) *ConsoleLogger {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleLogger{
		mu:     &sync.Mutex{},
		output: w,
		level:  level,
		fields: make(map[string]any),
		gray:   color.New(color.FgHiBlack),
		debug:  color.New(color.FgHiBlack),
		info:   color.New(color.FgBlue),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed),
	}
}

// NoColor disables colored output and returns the logger.
func (c *ConsoleLogger) NoColor() *ConsoleLogger {
	for _, col := range []*color.Color{
		c.gray, c.debug, c.info, c.warn, c.fail,
	} {
		col.DisableColor()
	}
	return c
}

func (c *ConsoleLogger) log(
	level LogLevel, col *color.Color, msg string, fields ...Field,
) {
	if level < c.level {
		return
	}

	all := mergeFields(c.fields, fields)

	var fieldStr string
	if len(all) > 0 {
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, all[k]))
		}
		fieldStr = " " + c.gray.Sprintf("{%s}", strings.Join(parts, ", "))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(
		c.output, "%s [%s] %s%s\n",
		c.gray.Sprint(time.Now().Format("15:04:05")),
		col.Sprintf("%-5s", level.String()),
		msg, fieldStr,
	)
}

// Info logs an informational message.
func (c *ConsoleLogger) Info(msg string, fields ...Field) {
	c.log(LevelInfo, c.info, msg, fields...)
}

// Warn logs a warning message.
func (c *ConsoleLogger) Warn(msg string, fields ...Field) {
	c.log(LevelWarn, c.warn, msg, fields...)
}

// Error logs an error message.
func (c *ConsoleLogger) Error(msg string, fields ...Field) {
	c.log(LevelError, c.fail, msg, fields...)
}

// Debug logs a debug message.
func (c *ConsoleLogger) Debug(msg string, fields ...Field) {
	c.log(LevelDebug, c.debug, msg, fields...)
}

// WithFields returns a new Logger sharing the output with
// additional default fields.
func (c *ConsoleLogger) WithFields(fields ...Field) Logger {
	child := *c
	child.fields = mergeFields(c.fields, fields)
	return &child
}

// Close is a no-op for ConsoleLogger.
func (c *ConsoleLogger) Close() error {
	return nil
}
