package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when the interactive session has no TTY to drive.
var ErrNotTerminal = errors.New("interactive mode requires a terminal (use 'turing exec' for headless runs)")

// InteractiveOptions configures an interactive session.
type InteractiveOptions struct {
	Config config.Config
	Logger *slog.Logger
	Debug  bool
	Store  ports.RunStore

	In  *os.File
	Out *os.File
}

type runResult struct {
	rec *domain.RunRecord
	err error
}

type session struct {
	mu     sync.Mutex
	eng    *turing.Engine
	ctrl   *Controller
	out    *termenv.Output
	theme  *tui.Theme
	help   []string
	runner *runner.Runner

	ticks  chan struct{}
	cancel context.CancelFunc
	done   chan runResult
}

// RunInteractive drives a machine from the keyboard until q or ctx is done.
func RunInteractive(ctx context.Context, opts InteractiveOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	fd := int(opts.In.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}

	out := termenv.NewOutput(opts.Out)
	s := &session{
		eng:   createEngine(opts.Config, opts.Logger, opts.Debug),
		out:   out,
		theme: tui.NewTheme(out.EnvColorProfile()),
		ticks: make(chan struct{}, 1),
	}
	s.ctrl = NewController(s.eng)

	help, err := tui.RenderHelp(tui.Width, "")
	if err != nil {
		opts.Logger.Warn("failed to render help", "err", err)
		help = tui.HelpMarkdown
	}
	s.help = strings.Split(strings.TrimRight(help, "\n"), "\n")

	s.runner = runner.NewRunner(
		runner.WithTickDelay(opts.Config.TickDelay),
		runner.WithMaxTicks(opts.Config.MaxTicks),
		runner.WithStore(opts.Store),
		runner.WithLogger(opts.Logger),
		runner.WithLocker(&s.mu),
		runner.WithReporter(runner.ReporterFuncs{
			OnTick: func(context.Context, domain.Transition) error {
				select {
				case s.ticks <- struct{}{}:
				default:
				}
				return nil
			},
		}),
	)

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	out.AltScreen()
	out.HideCursor()
	defer func() {
		out.ShowCursor()
		out.ExitAltScreen()
	}()

	keys := readKeys(opts.In)
	s.draw()
	return s.loop(ctx, keys)
}

// readKeys decodes input on its own goroutine. A blocked Read cannot be
// interrupted, so the goroutine ends with the process or the input.
func readKeys(r io.Reader) <-chan Key {
	ch := make(chan Key, 16)
	go func() {
		defer close(ch)
		buf := make([]byte, 64)
		for {
			n, err := r.Read(buf)
			for _, k := range ParseKeys(buf[:n]) {
				ch <- k
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

func (s *session) loop(ctx context.Context, keys <-chan Key) error {
	defer s.stopRun()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.ticks:
			s.draw()
		case res := <-s.done:
			s.done = nil
			s.cancel = nil
			s.mu.Lock()
			s.ctrl.Stopped(res.rec)
			if res.err != nil {
				s.ctrl.Message = res.err.Error()
			}
			s.mu.Unlock()
			s.draw()
		case k, ok := <-keys:
			if !ok {
				return nil
			}
			s.mu.Lock()
			action := s.ctrl.HandleKey(k)
			running := s.ctrl.Running
			s.mu.Unlock()

			switch action {
			case ActionQuit:
				return nil
			case ActionToggleRun:
				if running {
					s.startRun(ctx)
				} else {
					s.stopRun()
				}
			}
			s.draw()
		}
	}
}

func (s *session) startRun(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan runResult, 1)
	s.cancel = cancel
	s.done = done
	go func() {
		rec, err := s.runner.Run(runCtx, s.eng)
		done <- runResult{rec: rec, err: err}
	}()
}

// stopRun pauses the current run and waits for its goroutine, so at most
// one run touches the machine at a time.
func (s *session) stopRun() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	res := <-s.done
	s.cancel = nil
	s.done = nil

	s.mu.Lock()
	s.ctrl.Stopped(res.rec)
	s.mu.Unlock()
}

func (s *session) draw() {
	s.mu.Lock()
	var lines []string
	if s.ctrl.ShowHelp {
		lines = s.help
	} else {
		lines = s.theme.Render(s.eng.Snapshot(), s.ctrl.View())
	}
	s.mu.Unlock()

	s.out.ClearScreen()
	s.out.MoveCursor(1, 1)
	fmt.Fprint(s.out, strings.Join(lines, "\r\n"))
}
