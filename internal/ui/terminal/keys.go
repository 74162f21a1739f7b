package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// ErrInterrupted indicates the user pressed Ctrl-C at a prompt.
var ErrInterrupted = errors.New("interrupted")

// Answer is the decision a key press carries at a continuation prompt.
type Answer int

const (
	AnswerNone Answer = iota
	AnswerYes
	AnswerNo
	AnswerInterrupt
)

const (
	keyInterrupt = 0x03
	keyEOT       = 0x04
	keyEscape    = 0x1b
)

// KeyReader answers continuation prompts from single key presses when
// reading a terminal, and from whole lines otherwise.
//
// Reads run in the background so a cancelled prompt returns at once. A read
// left pending by a cancelled prompt is handed to the next prompt.
type KeyReader struct {
	in      io.Reader
	fd      int
	raw     bool
	line    *bufio.Reader
	pending chan readResult
}

type readResult struct {
	data []byte
	err  error
}

// NewKeyReader reads answers from in.
func NewKeyReader(in io.Reader) *KeyReader {
	reader := &KeyReader{in: in, line: bufio.NewReader(in)}
	if file, ok := in.(*os.File); ok && IsTerminal(file) {
		reader.fd = int(file.Fd())
		reader.raw = true
	}
	return reader
}

// IsTerminal reports whether file is attached to a terminal.
func IsTerminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Interactive reports whether answers come from single key presses.
func (reader *KeyReader) Interactive() bool {
	return reader.raw
}

// ReadContinue blocks until the user accepts or declines.
// Enter, space, y and Y accept; Escape, n and N decline; Ctrl-C interrupts.
// A cancelled ctx ends the prompt with ErrInterrupted.
func (reader *KeyReader) ReadContinue(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, interrupted(err)
	}
	if reader.raw {
		return reader.readKey(ctx)
	}
	return reader.readLine(ctx)
}

func interrupted(err error) error {
	return fmt.Errorf("%w: %w", ErrInterrupted, err)
}

// next waits for the pending read, starting one if none is in flight.
func (reader *KeyReader) next(ctx context.Context, read func() ([]byte, error)) ([]byte, error) {
	if reader.pending == nil {
		results := make(chan readResult, 1)
		reader.pending = results
		go func() {
			data, err := read()
			results <- readResult{data: data, err: err}
		}()
	}
	select {
	case <-ctx.Done():
		return nil, interrupted(ctx.Err())
	case result := <-reader.pending:
		reader.pending = nil
		return result.data, result.err
	}
}

func (reader *KeyReader) readKey(ctx context.Context) (bool, error) {
	state, err := term.MakeRaw(reader.fd)
	if err != nil {
		return false, fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(reader.fd, state)
	}()

	readOne := func() ([]byte, error) {
		buf := make([]byte, 8)
		n, err := reader.in.Read(buf)
		return buf[:n], err
	}
	for {
		key, err := reader.next(ctx, readOne)
		if errors.Is(err, ErrInterrupted) {
			return false, err
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, fmt.Errorf("read key: %w", err)
		}
		switch AnswerForKey(key) {
		case AnswerYes:
			return true, nil
		case AnswerNo:
			return false, nil
		case AnswerInterrupt:
			return false, ErrInterrupted
		}
	}
}

func (reader *KeyReader) readLine(ctx context.Context) (bool, error) {
	readOne := func() ([]byte, error) {
		text, err := reader.line.ReadString('\n')
		return []byte(text), err
	}
	for {
		data, err := reader.next(ctx, readOne)
		if errors.Is(err, ErrInterrupted) {
			return false, err
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("read answer: %w", err)
		}
		text := string(data)
		if errors.Is(err, io.EOF) && text == "" {
			return false, nil
		}
		switch AnswerForLine(text) {
		case AnswerYes:
			return true, nil
		case AnswerNo:
			return false, nil
		}
		if errors.Is(err, io.EOF) {
			return false, nil
		}
	}
}

// AnswerForKey maps the bytes of one key press to an answer.
// Escape sequences such as arrow keys carry no answer.
func AnswerForKey(key []byte) Answer {
	if len(key) == 0 {
		return AnswerNone
	}
	if key[0] == keyEscape {
		if len(key) == 1 {
			return AnswerNo
		}
		return AnswerNone
	}
	if len(key) != 1 {
		return AnswerNone
	}
	switch key[0] {
	case '\r', '\n', ' ', 'y', 'Y':
		return AnswerYes
	case 'n', 'N', keyEOT:
		return AnswerNo
	case keyInterrupt:
		return AnswerInterrupt
	default:
		return AnswerNone
	}
}

// AnswerForLine maps a line of input to an answer. An empty line accepts.
func AnswerForLine(line string) Answer {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return AnswerYes
	case "n", "no":
		return AnswerNo
	default:
		return AnswerNone
	}
}
