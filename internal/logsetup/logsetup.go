// Package logsetup maps the numeric --loglevel CLI flag (10/20/30/40/50,
// in increasing severity) onto glog's -v verbosity, since glog has no
// native notion of those levels.
package logsetup

import (
	"flag"
	"fmt"
)

// Configure sets glog's verbosity and stderr logging from a numeric
// loglevel (10=DEBUG, 20=INFO, 30=WARNING, 40=ERROR, 50=CRITICAL).
func Configure(loglevel int) error {
	var v string
	switch {
	case loglevel <= 10:
		v = "2"
	case loglevel <= 20:
		v = "1"
	default:
		v = "0"
	}
	if err := flag.Set("v", v); err != nil {
		return fmt.Errorf("logsetup: set -v: %w", err)
	}
	if err := flag.Set("logtostderr", "true"); err != nil {
		return fmt.Errorf("logsetup: set -logtostderr: %w", err)
	}
	return nil
}
