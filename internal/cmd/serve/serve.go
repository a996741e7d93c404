package serve

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/open-cli-collective/wikimacro/internal/cmd/cmdutil"
)

var interruptSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
	syscall.SIGINT,
}

// shutdownTimeout bounds how long in-flight requests may run after a signal.
const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	addr   string
	pretty bool
	debug  bool

	global cmdutil.GlobalOptions
}

// NewCmdServe creates the serve command.
func NewCmdServe() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Run an HTTP server exposing macro expansion.

Routes:
  POST /api/v1/render        expand wiki text ({"text": ..., "page": {...}})
  POST /api/v1/image/parse   explain Image arguments ({"args": ...})
  GET  /api/v1/macros        list registered macros
  GET  /healthz              check the backend

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  # Serve on the configured address
  wikimacro serve

  # Serve on another port with human readable logs
  wikimacro serve --addr :9090 --pretty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.global = cmdutil.Globals(cmd)
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (default: listen_addr from config, or :8080)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Log to the console instead of JSON")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Run gin in debug mode")

	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	if !opts.debug {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := cmdutil.LoadConfig(opts.global.Path())
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.ListenAddr = opts.addr
	}

	// stop() or a caught signal makes ctx done
	ctx, stop := signal.NotifyContext(ctx, interruptSignals...)
	defer stop()

	env, store, err := cmdutil.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	service := NewService(cfg.Addr(), env, store)

	waitGroup, ctx := errgroup.WithContext(ctx)
	runService(ctx, waitGroup, service)

	return waitGroup.Wait()
}

// runService starts service and stops it gracefully once ctx is done.
func runService(ctx context.Context, waitGroup *errgroup.Group, service *Service) {
	waitGroup.Go(func() error {
		log.Info().Msgf("start HTTP server at %s", service.Addr())

		err := service.Start()
		if err != nil {
			// returned once the server begins shutting down
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			log.Error().Err(err).Msg("cannot start HTTP server")
		}

		return err
	})

	waitGroup.Go(func() error {
		<-ctx.Done()

		log.Info().Msg("HTTP server: graceful shutdown")

		toCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := service.Shutdown(toCtx)
		if err != nil {
			log.Error().Err(err).Msg("cannot shutdown HTTP server gracefully")
		}

		log.Info().Msg("HTTP server is stopped")

		return err
	})
}
