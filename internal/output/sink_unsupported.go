//go:build !windows && !linux

package output

import "errors"

func NewSink() (Sink, error) {
	return nil, errors.New("no output backend for this platform")
}
