package countdown

import (
	"io"
)

// Alerter signals expiry to the user. Failures are reported but never stop
// the visual expiry indication.
type Alerter interface {
	Alert() error
}

// NopAlerter stays silent.
type NopAlerter struct{}

func (NopAlerter) Alert() error { return nil }

// BellAlerter rings the terminal bell.
type BellAlerter struct {
	W io.Writer
}

func (b BellAlerter) Alert() error {
	_, err := io.WriteString(b.W, "\a")
	return err
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func() error

func (f AlertFunc) Alert() error { return f() }
