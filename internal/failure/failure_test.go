package failure

import (
	"io"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestClassification(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"input", Input("bad %s", "thing"), "input"},
		{"connection", Connection(io.EOF, "connect"), "connection"},
		{"resource", Resource(io.ErrUnexpectedEOF, "write cache"), "resource"},
		{"index", IndexOutOfRange(3, 2), "input"},
		{"wrapped input", errors.Wrap(Input("x"), "outer"), "input"},
		{"plain", errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Class(tt.err); got != tt.want {
				t.Errorf("Class(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestIndexOutOfRangeIsBothMarks(t *testing.T) {
	t.Parallel()
	err := IndexOutOfRange(5, 1)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Error("expected ErrIndexOutOfRange mark")
	}
	if !errors.Is(err, ErrInput) {
		t.Error("expected ErrInput mark")
	}
	if errors.Is(err, ErrExecution) {
		t.Error("unexpected ErrExecution mark")
	}
}

func TestWrappedCauseIsKept(t *testing.T) {
	t.Parallel()
	err := Connection(io.EOF, "dial %s", "localhost")
	if !errors.Is(err, io.EOF) {
		t.Errorf("cause lost: %v", err)
	}
	if got := err.Error(); got != "dial localhost: EOF" {
		t.Errorf("unexpected message %q", got)
	}
}
