package platform

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrIdleUnsupported means the desktop cannot report input idle time.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleProvider returns the duration since last user input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// IdleFunc adapts a function to IdleProvider.
type IdleFunc func() (time.Duration, error)

// IdleDuration calls fn.
func (fn IdleFunc) IdleDuration() (time.Duration, error) {
	return fn()
}

// NewIdleProvider returns the provider for the current OS. Reminders use it
// to postpone while nobody is at the keyboard.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

func unsupportedIdle() IdleProvider {
	return IdleFunc(func() (time.Duration, error) { return 0, ErrIdleUnsupported })
}

// parseIdleMillis parses xprintidle output.
func parseIdleMillis(output []byte) (time.Duration, error) {
	idleMillis, err := strconv.ParseInt(strings.TrimSpace(string(output)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}

// parseHIDIdleTime reads HIDIdleTime (nanoseconds) from ioreg output.
func parseHIDIdleTime(output []byte) (time.Duration, error) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, `"HIDIdleTime"`) {
			continue
		}
		_, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		nanos, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse HIDIdleTime: %w", err)
		}
		if nanos < 0 {
			nanos = 0
		}
		return time.Duration(nanos), nil
	}
	return 0, ErrIdleUnsupported
}

// idleSinceTicks converts GetTickCount64 and the 32-bit LASTINPUTINFO tick
// into an idle duration. The input tick wraps every 49.7 days, so only the
// low 32 bits of now are compared.
func idleSinceTicks(now uint64, lastInput uint32) time.Duration {
	return time.Duration(uint32(now)-lastInput) * time.Millisecond
}
