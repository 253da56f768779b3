package logger

import (
	"fmt"
	"strings"
)

// ComponentLogger prefixes every message with a component name and
// renders trailing key/value pairs in key=value form.
type ComponentLogger struct {
	component string
}

// WithComponent returns a logger scoped to the given component name
func WithComponent(component string) *ComponentLogger {
	return &ComponentLogger{component: component}
}

func (c *ComponentLogger) format(msg string, keyvals ...interface{}) string {
	if len(keyvals) == 0 {
		return fmt.Sprintf("[%s] %s", c.component, msg)
	}

	var sb strings.Builder
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprintf("%v", keyvals[i])
		value := "?"
		if i+1 < len(keyvals) {
			value = fmt.Sprintf("%v", keyvals[i+1])
		}
		sb.WriteString(fmt.Sprintf(" %s=%s", key, value))
	}
	return fmt.Sprintf("[%s] %s%s", c.component, msg, sb.String())
}

// Debug logs a debug message with optional key/value pairs
func (c *ComponentLogger) Debug(msg string, keyvals ...interface{}) {
	Debug("%s", c.format(msg, keyvals...))
}

// Info logs an info message with optional key/value pairs
func (c *ComponentLogger) Info(msg string, keyvals ...interface{}) {
	Info("%s", c.format(msg, keyvals...))
}

// Warn logs a warning message with optional key/value pairs
func (c *ComponentLogger) Warn(msg string, keyvals ...interface{}) {
	Warn("%s", c.format(msg, keyvals...))
}

// Error logs an error message with optional key/value pairs
func (c *ComponentLogger) Error(msg string, keyvals ...interface{}) {
	Error("%s", c.format(msg, keyvals...))
}
