package exchange

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// File exchanges moves through text files in a shared directory.
// Every item is a file named after the item, with suffix ".txt".
type File struct {
	dir     string
	out, in Slot
	options
}

var _ Exchange = (*File)(nil)

// NewFile creates an exchange which writes to slot out and reads from slot in.
// Directory dir is created if it does not exist.
func NewFile(dir string, out, in Slot, opts ...Option) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("exchange directory: %w", err)
	}
	return &File{
		dir:     dir,
		out:     out,
		in:      in,
		options: makeOptions(opts),
	}, nil
}

// Dir is the exchange directory.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) path(item string) string {
	return filepath.Join(f.dir, item+".txt")
}

// Submit writes the data file for a turn, then its signal file.
func (f *File) Submit(ctx context.Context, turn int, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tracer().P("slot", f.out).Debugf("turn %d: writing %q", turn, text)
	if err := os.WriteFile(f.path(f.out.Data(turn)), []byte(text), 0o644); err != nil {
		return fmt.Errorf("submitting turn %d: %w", turn, err)
	}
	if err := os.WriteFile(f.path(f.out.Signal(turn)), []byte(TriggerText), 0o644); err != nil {
		return fmt.Errorf("signaling turn %d: %w", turn, err)
	}
	return nil
}

// AwaitAndRead waits for the signal file of a turn, then returns the first
// line of its data file.
func (f *File) AwaitAndRead(ctx context.Context, turn int) (string, error) {
	signal := f.path(f.in.Signal(turn))
	err := poll(ctx, f.interval, f.timeout, func() (bool, error) {
		_, err := os.Stat(signal)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	})
	if err != nil && !errors.Is(err, ErrTimeout) {
		return "", err
	}
	if err != nil {
		tracer().P("slot", f.in).Infof("turn %d: no signal after %v", turn, f.timeout)
	}
	text, rerr := readFirstLine(f.path(f.in.Data(turn)))
	if rerr != nil {
		return "", rerr
	}
	tracer().P("slot", f.in).Debugf("turn %d: read %q", turn, text)
	return text, err
}

// readFirstLine reads the first line of a file. A missing file reads as "".
func readFirstLine(path string) (string, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", scanner.Err()
}
