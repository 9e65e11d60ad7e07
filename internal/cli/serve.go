package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rankforge/pkg/cache"
	"github.com/matzehuels/rankforge/pkg/cmpio"
	"github.com/matzehuels/rankforge/pkg/errors"
	"github.com/matzehuels/rankforge/pkg/pipeline"
	"github.com/matzehuels/rankforge/pkg/relation"
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		noCache   bool
		timeLimit time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ranking HTTP API",
		Long: `Run the ranking HTTP API.

Endpoints:

  POST /v1/rank   compute a ranking from a JSON comparison document
  GET  /healthz   liveness probe

With --redis, results are cached in Redis instead of the local file cache,
so multiple instances can share one cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(c.withLogger(cmd.Context()), addr, redisAddr, noCache, timeLimit)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for shared caching (host:port)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 30*time.Second, "per-request solve budget")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisAddr string, noCache bool, timeLimit time.Duration) error {
	store, err := newServeCache(redisAddr, noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	api := &apiServer{runner: runner, cli: c, timeLimit: timeLimit}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(c.requestLogger)
	r.Get("/healthz", api.handleHealth)
	r.Post("/v1/rank", api.handleRank)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c.Logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// newServeCache picks the cache backend for the API server.
func newServeCache(redisAddr string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(redisAddr), nil
	}
	return newCache(false)
}

// requestLogger logs one line per request through the CLI logger.
func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		c.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

// =============================================================================
// Handlers
// =============================================================================

type apiServer struct {
	runner    *pipeline.Runner
	cli       *CLI
	timeLimit time.Duration
}

// rankRequest is the body of POST /v1/rank.
type rankRequest struct {
	Comparisons []rankComparison `json:"comparisons"`
	EqualBand   float64          `json:"equal_band"`
	Weighted    bool             `json:"weighted"`
	Refresh     bool             `json:"refresh"`
}

type rankComparison struct {
	I     int     `json:"i"`
	J     int     `json:"j"`
	Value float64 `json:"value"`
}

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *apiServer) handleRank(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidFormat, "request body is not valid JSON"))
		return
	}

	set := relation.NewSet()
	for _, cmp := range req.Comparisons {
		if err := set.Add(cmp.I, cmp.J, cmp.Value); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	res, err := s.runner.Execute(s.cli.withLogger(r.Context()), set, pipeline.Options{
		EqualBand:          req.EqualBand,
		WeightByConfidence: req.Weighted,
		Refresh:            req.Refresh,
		TimeLimit:          s.timeLimit,
		Logger:             s.cli.Logger,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errors.ErrCodeInvalidConfig) || errors.Is(err, errors.ErrCodeInvalidValue) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if res.CacheHit {
		w.Header().Set("X-Cache", "hit")
	}
	_ = cmpio.WriteRanking(cmpio.NewRankingDoc(res.Ranking, res.RunID), w)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}
