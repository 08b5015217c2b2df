package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-peyrard/extarray"
	"github.com/a-peyrard/extarray/option"
	"github.com/rs/zerolog"
)

const (
	usage = "commands: get <idx> | set <idx> <value> | lookup <idx> | len | help | quit"

	// DefaultMaxIndex keeps the array of the shell under about two million slots.
	DefaultMaxIndex = 1<<20 - 1
)

var (
	errQuit           = errors.New("quit")
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("usage")
)

type (
	// Shell reads commands line by line and applies them on an array.
	Shell struct {
		array    *extarray.Array[string]
		in       io.Reader
		out      io.Writer
		logger   *zerolog.Logger
		maxIndex int
	}

	ShellOptions struct {
		maxIndex int
	}
)

// WithMaxIndex sets the highest index accepted by the shell, bigger ones are reported as line errors.
func WithMaxIndex(maxIndex int) option.Option[ShellOptions] {
	return func(opts *ShellOptions) {
		opts.maxIndex = maxIndex
	}
}

func NewShell(
	array *extarray.Array[string],
	in io.Reader,
	out io.Writer,
	logger *zerolog.Logger,
	opts ...option.Option[ShellOptions],
) *Shell {
	options := option.BuildFrom(ShellOptions{maxIndex: DefaultMaxIndex}, opts...)

	return &Shell{
		array:    array,
		in:       in,
		out:      out,
		logger:   logger,
		maxIndex: options.maxIndex,
	}
}

// Run processes commands until the input is exhausted, quit is read, or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		// no bufio.Scanner here, a set value can be longer than its token limit
		reader := bufio.NewReader(s.in)
		for {
			line, err := reader.ReadString('\n')
			if len(line) > 0 {
				select {
				case lines <- strings.TrimRight(line, "\r\n"):
				case <-ctx.Done():
					readErr <- nil
					return
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("unable to read commands: %w", err)
				}
				return ctx.Err()
			}
			output, err := s.Execute(line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				s.logger.Debug().Err(err).Str("line", line).Msg("Command failed")
				output = "error: " + err.Error()
			}
			if output == "" {
				continue
			}
			if _, err := fmt.Fprintln(s.out, output); err != nil {
				return fmt.Errorf("unable to write output: %w", err)
			}
		}
	}
}

// Execute runs a single command line and returns what should be printed.
func (s *Shell) Execute(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	switch cmd := strings.ToLower(fields[0]); cmd {
	case "get":
		idx, err := s.parseIndex(fields, 2, "get <idx>")
		if err != nil {
			return "", err
		}
		return guard(func() string {
			return strconv.Quote(s.array.Get(idx))
		})
	case "set":
		idx, err := s.parseIndex(fields, -1, "set <idx> <value>")
		if err != nil {
			return "", err
		}
		if len(fields) < 3 {
			return "", fmt.Errorf("%w: set <idx> <value>", errUsage)
		}
		value := strings.Join(fields[2:], " ")
		return guard(func() string {
			return strconv.Quote(s.array.Set(idx, value))
		})
	case "lookup":
		idx, err := s.parseIndex(fields, 2, "lookup <idx>")
		if err != nil {
			return "", err
		}
		return guard(func() string {
			value, ok := s.array.Lookup(idx)
			if !ok {
				return "<empty>"
			}
			return strconv.Quote(value)
		})
	case "len":
		return strconv.Itoa(s.array.Len()), nil
	case "help":
		return usage, nil
	case "quit", "exit":
		return "", errQuit
	default:
		return "", fmt.Errorf("%w %q, %s", errUnknownCommand, cmd, usage)
	}
}

// parseIndex reads the index in fields[1], expected is the exact number of fields or -1 to skip the check.
// Negative indices are left to the array, indices above maxIndex are refused.
func (s *Shell) parseIndex(fields []string, expected int, form string) (int, error) {
	if len(fields) < 2 || (expected >= 0 && len(fields) != expected) {
		return 0, fmt.Errorf("%w: %s", errUsage, form)
	}
	idx, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", fields[1], err)
	}
	if idx > s.maxIndex {
		return 0, fmt.Errorf("%w: index %d is above the limit %d", extarray.ErrInvalidArgument, idx, s.maxIndex)
	}
	return idx, nil
}

// guard turns the invalid argument panics of the array into errors.
func guard(fn func() string) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			recovered, ok := r.(error)
			if !ok || !errors.Is(recovered, extarray.ErrInvalidArgument) {
				panic(r)
			}
			err = recovered
		}
	}()
	return fn(), nil
}
