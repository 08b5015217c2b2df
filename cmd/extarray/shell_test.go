package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"testing/iotest"

	"github.com/a-peyrard/extarray"
	"github.com/a-peyrard/extarray/option"
	"github.com/a-peyrard/extarray/runner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T, capacity int, in io.Reader, out io.Writer, opts ...option.Option[ShellOptions]) (*Shell, *extarray.Array[string]) {
	t.Helper()
	logger := zerolog.Nop()
	arr, err := extarray.NewWithCapacity[string](capacity, extarray.WithLogger(&logger))
	require.NoError(t, err)
	return NewShell(arr, in, out, &logger, opts...), arr
}

func TestShell_Execute(t *testing.T) {
	t.Run("it should set and get values", func(t *testing.T) {
		// GIVEN
		shell, _ := newTestShell(t, 3, nil, nil)

		// WHEN
		firstSet, err1 := shell.Execute("set 1 hello world")
		secondSet, err2 := shell.Execute("set 1 bye")
		get, err3 := shell.Execute("get 1")

		// THEN
		require.NoError(t, err1)
		require.NoError(t, err2)
		require.NoError(t, err3)
		assert.Equal(t, `""`, firstSet)
		assert.Equal(t, `"hello world"`, secondSet)
		assert.Equal(t, `"bye"`, get)
	})

	t.Run("it should grow the array on read", func(t *testing.T) {
		// GIVEN
		shell, arr := newTestShell(t, 0, nil, nil)

		// WHEN
		get, err := shell.Execute("get 5")
		length, lenErr := shell.Execute("len")

		// THEN
		require.NoError(t, err)
		require.NoError(t, lenErr)
		assert.Equal(t, `""`, get)
		assert.Equal(t, "7", length)
		assert.Equal(t, 7, arr.Len())
	})

	t.Run("it should tell empty slots apart", func(t *testing.T) {
		// GIVEN
		shell, arr := newTestShell(t, 3, nil, nil)
		arr.Set(0, "")

		// WHEN
		set, err1 := shell.Execute("lookup 0")
		empty, err2 := shell.Execute("LOOKUP 1")

		// THEN
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, `""`, set)
		assert.Equal(t, "<empty>", empty)
	})

	t.Run("it should report a negative index as an invalid argument", func(t *testing.T) {
		// GIVEN
		shell, arr := newTestShell(t, 3, nil, nil)

		// WHEN
		_, err := shell.Execute("set -1 foo")

		// THEN
		assert.ErrorIs(t, err, extarray.ErrInvalidArgument)
		assert.EqualError(t, err, "invalid argument: negative index -1")
		assert.Equal(t, 3, arr.Len())
	})

	t.Run("it should report malformed commands", func(t *testing.T) {
		// GIVEN
		shell, _ := newTestShell(t, 3, nil, nil)

		// WHEN
		_, unknownErr := shell.Execute("pop 1")
		_, usageErr := shell.Execute("get")
		_, setUsageErr := shell.Execute("set 1")
		_, indexErr := shell.Execute("get one")

		// THEN
		assert.ErrorIs(t, unknownErr, errUnknownCommand)
		assert.ErrorIs(t, usageErr, errUsage)
		assert.EqualError(t, usageErr, "usage: get <idx>")
		assert.ErrorIs(t, setUsageErr, errUsage)
		assert.ErrorContains(t, indexErr, `invalid index "one"`)
	})

	t.Run("it should refuse indices above the limit without growing", func(t *testing.T) {
		// GIVEN
		shell, arr := newTestShell(t, 3, nil, nil, WithMaxIndex(10))

		// WHEN
		_, aboveErr := shell.Execute("set 11 foo")
		atLimit, atLimitErr := shell.Execute("set 10 foo")

		// THEN
		assert.ErrorIs(t, aboveErr, extarray.ErrInvalidArgument)
		assert.EqualError(t, aboveErr, "invalid argument: index 11 is above the limit 10")
		require.NoError(t, atLimitErr)
		assert.Equal(t, `""`, atLimit)
		assert.Equal(t, 15, arr.Len())
	})

	t.Run("it should ignore blank lines", func(t *testing.T) {
		// GIVEN
		shell, _ := newTestShell(t, 3, nil, nil)

		// WHEN
		output, err := shell.Execute("   ")

		// THEN
		assert.NoError(t, err)
		assert.Equal(t, "", output)
	})
}

func TestShell_Run(t *testing.T) {
	t.Run("it should process commands until quit", func(t *testing.T) {
		// GIVEN
		in := strings.NewReader("set 0 x\nset 10 w\nget 0\nget -2\nlen\n\nlookup 3\nquit\nget 0\n")
		var out bytes.Buffer
		shell, _ := newTestShell(t, 3, in, &out)

		// WHEN
		err := shell.Run(context.Background())

		// THEN
		require.NoError(t, err)
		assert.Equal(t, strings.Join([]string{
			`""`,
			`""`,
			`"x"`,
			"error: invalid argument: negative index -2",
			"15",
			"<empty>",
		}, "\n")+"\n", out.String())
	})

	t.Run("it should keep going after an index it cannot address", func(t *testing.T) {
		// GIVEN
		in := strings.NewReader("get 9223372036854775807\nlookup 2000000\nget 99999999999999999999\nlen\n")
		var out bytes.Buffer
		shell, arr := newTestShell(t, 3, in, &out)

		// WHEN
		var err error
		assert.NotPanics(t, func() {
			err = shell.Run(context.Background())
		})

		// THEN
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "error: invalid argument: index 9223372036854775807 is above the limit 1048575", lines[0])
		assert.Equal(t, "error: invalid argument: index 2000000 is above the limit 1048575", lines[1])
		assert.True(t, strings.HasPrefix(lines[2], `error: invalid index "99999999999999999999"`))
		assert.Equal(t, "3", lines[3])
		assert.Equal(t, 3, arr.Len())
	})

	t.Run("it should accept lines longer than a scanner token", func(t *testing.T) {
		// GIVEN
		value := strings.Repeat("v", 200*1024)
		in := strings.NewReader("set 1 " + value + "\r\nlookup 1\n")
		var out bytes.Buffer
		shell, arr := newTestShell(t, 3, in, &out)

		// WHEN
		err := shell.Run(context.Background())

		// THEN
		require.NoError(t, err)
		assert.Equal(t, value, arr.Get(1))
		assert.Equal(t, `""`+"\n"+`"`+value+`"`+"\n", out.String())
	})

	t.Run("it should stop at the end of the input", func(t *testing.T) {
		// GIVEN
		var out bytes.Buffer
		shell, _ := newTestShell(t, 3, strings.NewReader("len"), &out)

		// WHEN
		err := shell.Run(context.Background())

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "3\n", out.String())
	})

	t.Run("it should stop when the context is cancelled", func(t *testing.T) {
		// GIVEN
		reader, writer := io.Pipe()
		defer writer.Close()
		shell, _ := newTestShell(t, 3, reader, io.Discard)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// WHEN
		err := shell.Run(ctx)

		// THEN
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestShell_UnderRunner(t *testing.T) {
	t.Run("it should be released when the runner context is cancelled", func(t *testing.T) {
		// GIVEN
		reader, writer := io.Pipe()
		defer writer.Close()
		var out bytes.Buffer
		shell, _ := newTestShell(t, 3, reader, &out)
		ctx, cancel := context.WithCancel(context.Background())

		// WHEN
		done := make(chan error, 1)
		go func() {
			done <- runner.RunAll(ctx, shell)
		}()
		_, err := writer.Write([]byte("set 0 foo\n"))
		require.NoError(t, err)
		cancel()

		// THEN
		assert.ErrorIs(t, <-done, context.Canceled)
	})

	t.Run("it should stop its sibling when it fails", func(t *testing.T) {
		// GIVEN
		shell, _ := newTestShell(t, 3, iotest.ErrReader(errors.New("broken stdin")), io.Discard)
		var released atomic.Bool
		sibling := runner.RunnableFunc(func(ctx context.Context) error {
			<-ctx.Done()
			released.Store(true)
			return nil
		})

		// WHEN
		err := runner.RunAll(context.Background(), shell, sibling)

		// THEN
		assert.EqualError(t, err, "runnable #0: unable to read commands: broken stdin")
		assert.True(t, released.Load())
	})
}
