package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/llehouerou/wavesink/internal/playback"
)

// RunLines serves a console on a plain reader. The first character of each
// line is the command and the rest of the line is ignored. Engine log lines
// from sub are interleaved with command output. It returns on quit, on end
// of input or when ctx is done.
func RunLines(ctx context.Context, c *Controller, sub *playback.Subscription, r io.Reader, w io.Writer) error {
	var mu sync.Mutex
	emit := func(lines ...string) {
		mu.Lock()
		defer mu.Unlock()
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
	}

	// cancel must run before Wait
	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if sub != nil {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-sub.Done:
					return
				case line := <-sub.Logged:
					emit("[Player] " + line)
				case <-sub.StateChanged:
				}
			}
		})
	}

	keys := make(chan rune)
	errc := make(chan error, 1)
	go func() {
		var err error
		defer func() {
			errc <- err
			close(keys)
		}()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			k, _ := utf8.DecodeRuneInString(line)
			select {
			case keys <- k:
			case <-ctx.Done():
				return
			}
		}
		err = scanner.Err()
	}()

	emit(Help()...)
	for {
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			if !ok {
				return <-errc
			}
			if k == KeyQuit {
				return nil
			}
			emit(c.Handle(ctx, k)...)
		}
	}
}
