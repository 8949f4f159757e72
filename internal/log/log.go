package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	mu                  sync.Mutex
	debugMode           = false
	output    io.Writer = os.Stderr
)

// SetDebugMode enables or disables debug mode
func SetDebugMode(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugMode = enabled
}

// IsDebugMode returns whether debug mode is enabled
func IsDebugMode() bool {
	mu.Lock()
	defer mu.Unlock()
	return debugMode
}

// SetOutput sets the output writer for log messages
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// Debug prints debug messages (only in debug mode)
func Debug(format string, args ...interface{}) {
	if IsDebugMode() {
		gray := color.New(color.FgHiBlack)
		gray.Fprintf(writer(), "[DEBUG] "+format+"\n", args...)
	}
}

// DebugConfig prints configuration details in debug mode
func DebugConfig(label string, config interface{}) {
	if IsDebugMode() {
		gray := color.New(color.FgHiBlack)
		data, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			gray.Fprintf(writer(), "[DEBUG] %s: (failed to serialize: %v)\n", label, err)
			return
		}
		gray.Fprintf(writer(), "[DEBUG] %s:\n%s\n", label, string(data))
	}
}

// DebugRequest logs outbound API request details in debug mode
func DebugRequest(method, url string) {
	if IsDebugMode() {
		cyan := color.New(color.FgCyan)
		cyan.Fprintf(writer(), "[DEBUG] API Request: %s %s\n", method, url)
	}
}

// DebugResponse logs API response status in debug mode
func DebugResponse(statusCode int, elapsed time.Duration) {
	if IsDebugMode() {
		green := color.New(color.FgGreen)
		if statusCode >= 400 {
			green = color.New(color.FgRed)
		}
		green.Fprintf(writer(), "[DEBUG] API Response: %d (%v)\n", statusCode, elapsed)
	}
}

// DebugTransition logs a generation session state change in debug mode
func DebugTransition(session, from, to string) {
	if IsDebugMode() {
		yellow := color.New(color.FgYellow)
		yellow.Fprintf(writer(), "[DEBUG] Session %s: %s -> %s\n", session, from, to)
	}
}

// DebugPrompt logs the assembled prompt sizes and, when short, the full text
func DebugPrompt(system, user string) {
	if IsDebugMode() {
		magenta := color.New(color.FgMagenta)
		magenta.Fprintf(writer(), "[DEBUG] Prompt: system=%d bytes, user=%d bytes\n", len(system), len(user))
		fmt.Fprintf(writer(), "[DEBUG] User prompt head:\n%s\n", truncate(user, 400))
	}
}

// DebugDuration logs execution duration in debug mode
func DebugDuration(operation string, duration time.Duration) {
	if IsDebugMode() {
		blue := color.New(color.FgBlue)
		blue.Fprintf(writer(), "[DEBUG] %s took %v\n", operation, duration)
	}
}

// Info prints informational messages
func Info(format string, args ...interface{}) {
	fmt.Fprintf(writer(), format+"\n", args...)
}

// Error prints error messages
func Error(format string, args ...interface{}) {
	red := color.New(color.FgRed)
	red.Fprintf(writer(), "Error: "+format+"\n", args...)
}

// Warn prints warning messages
func Warn(format string, args ...interface{}) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(writer(), "Warning: "+format+"\n", args...)
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
