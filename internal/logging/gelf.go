package logging

import (
	"io"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGelfWriter connects to a Graylog GELF endpoint ("host:port" UDP).
// Each Write call ships one GELF message, so the writer plugs straight
// into a text handler.
func NewGelfWriter(addr string) (io.Writer, error) {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return nil, err
	}
	return w, nil
}
