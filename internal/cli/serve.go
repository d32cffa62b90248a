package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/asanagraph/asana-deps-graph/internal/config"
	"github.com/asanagraph/asana-deps-graph/pkg/errors"
	"github.com/asanagraph/asana-deps-graph/pkg/pipeline"
	"github.com/asanagraph/asana-deps-graph/pkg/render"
)

// shutdownTimeout bounds graceful shutdown on SIGINT.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command exposing rendered graphs over HTTP.
func (c *CLI) serveCommand(configPath *string, noCache *bool) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered dependency graphs over HTTP",
		Long: `Run a small HTTP API that renders project dependency graphs on demand:

  GET /healthz
  GET /projects/{projectID}/graph?format=dot|mermaid&decorate=true

The server authenticates to Asana with the same token resolution as the
CLI. Responses are graph description text, never images.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			client, err := c.newClient(ctx, cfg, *noCache)
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(client, c.Logger)
			srv := &http.Server{
				Addr:    addr,
				Handler: newServeHandler(runner, c.Logger),
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			c.Logger.Info("listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return ctx.Err()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

// newServeHandler builds the HTTP routing for the serve API.
func newServeHandler(runner *pipeline.Runner, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})

	r.Get("/projects/{projectID}/graph", func(w http.ResponseWriter, req *http.Request) {
		format := req.URL.Query().Get("format")
		if format == "" {
			format = render.FormatDOT
		}

		out, err := runner.Run(req.Context(), pipeline.Options{
			ProjectID: chi.URLParam(req, "projectID"),
			Format:    format,
			Decorate:  req.URL.Query().Get("decorate") == "true",
		})
		if err != nil {
			status := httpStatus(err)
			loggerFromContext(req.Context()).Error("render failed",
				"project", chi.URLParam(req, "projectID"), "status", status, "err", err)
			http.Error(w, errors.UserMessage(err), status)
			return
		}

		if format == render.FormatDOT {
			w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		} else {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		fmt.Fprint(w, out)
	})

	return r
}

// httpStatus maps the error taxonomy to HTTP status codes. Credential and
// upstream failures are the server's problem, not the API caller's.
func httpStatus(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusServiceUnavailable
	case errors.ErrCodeUnauthorized, errors.ErrCodeForbidden, errors.ErrCodeMissingToken,
		errors.ErrCodeNetwork, errors.ErrCodeTimeout, errors.ErrCodeMalformedData:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// requestID tags each request with a unique id, echoed in the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, req.WithContext(withRequestID(req.Context(), id)))
	})
}

// requestIDKey is the context key for the request id.
const requestIDKey ctxKey = 1

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// requestLogger logs one line per request with status and duration.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			id := requestIDFromContext(req.Context())
			reqLogger := logger.With("id", id)
			req = req.WithContext(withLogger(req.Context(), reqLogger))

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, req)
			reqLogger.Info("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", rec.status,
				"duration", time.Since(start).Round(time.Millisecond),
			)
		})
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
