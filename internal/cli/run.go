package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/llehouerou/wavesink/internal/config"
	"github.com/llehouerou/wavesink/internal/console"
	"github.com/llehouerou/wavesink/internal/errmsg"
	"github.com/llehouerou/wavesink/internal/logging"
	"github.com/llehouerou/wavesink/internal/stderr"
)

// isTerminal reports whether the console can run the full screen UI.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runPlayer(cmd *cobra.Command, _ []string) error {
	tui := isTerminal()

	// The UI owns the terminal, so logs go to a file
	logCfg := cfg.Log
	if tui && logCfg.File == "" {
		logCfg.File = config.DefaultLogFile()
	}
	log, closer, err := logging.New(logCfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	// Capture C library output before the audio device is opened
	var capture *stderr.Capture
	if tui {
		capture, err = stderr.Start()
		if err != nil {
			log.Warn().Err(err).Msg("stderr capture unavailable")
		} else {
			defer capture.Stop()
		}
	}

	t, err := newTransport(cfg, log)
	if err != nil {
		return err
	}
	s, err := newSession(cfg, log, t)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", errmsg.OpInitialize, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if connect {
		if err := s.bridge.Connect(); err != nil {
			log.Error().Err(err).Msg(errmsg.Format(errmsg.OpSinkConnect, err))
		}
	}

	if !tui {
		fmt.Fprintln(cmd.OutOrStdout(), "System ready! Type 'c' to connect or 'h' for help.")
		return s.run(ctx, s.lineConsole(cmd.InOrStdin(), cmd.OutOrStdout()))
	}
	return s.run(ctx, s.terminalConsole(capture, log))
}

// terminalConsole runs the bubbletea UI.
func (s *session) terminalConsole(capture *stderr.Capture, log zerolog.Logger) consoleFunc {
	var lines <-chan string
	if capture != nil {
		lines = capture.Lines()
	}
	c := s.controller()
	sub := s.engine.Subscribe()

	return func(ctx context.Context) error {
		m := console.NewModel(ctx, c, sub, lines)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("console")
			return err
		}
		return nil
	}
}
