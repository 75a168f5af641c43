package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recera/dotrender/cmd/dotrender/internal/config"
	"github.com/recera/dotrender/cmd/dotrender/internal/ui"
	"github.com/recera/dotrender/pkg/diagram"
	"github.com/recera/dotrender/pkg/layout/graphviz"
	"github.com/recera/dotrender/pkg/live"
	"github.com/recera/dotrender/pkg/watch"
)

//go:embed preview.html
var previewHTML string

var previewTemplate = template.Must(template.New("preview").Parse(previewHTML))

// sessionPollInterval is how often the status view refreshes the client count
const sessionPollInterval = 500 * time.Millisecond

func newServeCommand() *cobra.Command {
	var addr string
	var noTUI bool

	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Preview a DOT file in the browser",
		Long: `Starts a preview server for FILE. Every connected browser gets the diagram
fitted to its own box, and the diagram is re-rendered whenever FILE is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			if noTUI {
				off := false
				cfg.Serve.TUI = &off
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, args[0], cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config, localhost:5180)")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Log to stderr instead of showing the status view")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, file string, stderr io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	useTUI := cfg.TUIEnabled()

	// The status view owns the terminal
	logOut := stderr
	if useTUI && !verbose {
		logOut = io.Discard
	}
	log, err := newLogger(cfg.Log, verbose, logOut)
	if err != nil {
		return err
	}
	defer log.Sync()

	layout, err := graphviz.ParseLayout(cfg.Layout)
	if err != nil {
		return err
	}
	r, err := graphviz.New(ctx, graphviz.WithLayout(layout))
	if err != nil {
		return err
	}
	defer r.Close()

	watcher, err := watch.New(file, watch.WithDebounce(cfg.Serve.Debounce), watch.WithLogger(log.Named("watch")))
	if err != nil {
		return err
	}

	var program *tea.Program
	if useTUI {
		program = tea.NewProgram(ui.NewStatus(file, "http://"+cfg.Serve.Addr))
	}

	liveSrv := live.NewServer(r,
		live.WithLogger(log.Named("live")),
		live.WithObserver(func(ev diagram.Event) {
			if program != nil {
				program.Send(ui.EventMsg(ev))
				return
			}
			switch ev.Kind {
			case diagram.EventApplied:
				log.Info("diagram rendered", zap.Uint64("seq", ev.Seq), zap.Stringer("size", ev.Size))
			case diagram.EventFailed:
				log.Warn("render failed", zap.Uint64("seq", ev.Seq), zap.Error(ev.Err))
			}
		}),
	)
	defer liveSrv.Close()

	ln, err := net.Listen("tcp", cfg.Serve.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Serve.Addr, err)
	}

	srv := &http.Server{
		Handler: newRouter(liveSrv, filepath.Base(file), cfg),
	}

	errCh := make(chan error, 3)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("preview server: %w", err)
		}
	}()
	go func() {
		err := watcher.Run(ctx, func(content string) {
			if program != nil {
				program.Send(ui.ContentMsg{Bytes: len(content)})
			}
			liveSrv.Broadcast(content)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	log.Info("preview server started", zap.String("url", "http://"+ln.Addr().String()), zap.String("file", watcher.Path()))

	if program != nil {
		go pollSessions(ctx, program, liveSrv)
		go func() {
			select {
			case <-ctx.Done():
			case err := <-errCh:
				errCh <- err
			}
			program.Quit()
		}()
		if _, err := program.Run(); err != nil {
			log.Error("status view failed", zap.Error(err))
		}
		cancel()
	} else {
		select {
		case <-ctx.Done():
		case err := <-errCh:
			errCh <- err
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("preview server stopped")

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

func pollSessions(ctx context.Context, program *tea.Program, srv *live.Server) {
	ticker := time.NewTicker(sessionPollInterval)
	defer ticker.Stop()

	last := -1
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := srv.SessionCount(); n != last {
				last = n
				program.Send(ui.SessionsMsg(n))
			}
		}
	}
}

// newRouter serves the preview page, the live websocket and a health check
func newRouter(liveSrv http.Handler, title string, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := struct {
			File          string
			Width, Height float64
		}{title, cfg.Width, cfg.Height}
		if err := previewTemplate.Execute(w, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"service":"dotrender"}`))
	})

	r.Handle("/live", liveSrv)

	return r
}
