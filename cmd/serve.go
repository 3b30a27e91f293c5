package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/vtjnash/whedon-api/internal/bootstrap"
	"github.com/vtjnash/whedon-api/internal/bootstrap/logging"
	"github.com/vtjnash/whedon-api/internal/domain/review"
	"github.com/vtjnash/whedon-api/internal/errs"
	"github.com/vtjnash/whedon-api/internal/usecase/dispatch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook dispatch server",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *dispatch.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr := strings.TrimSpace(app.Config.Server.Addr)
		if addr == "" {
			addr = ":4567"
		}

		settle := app.Config.App.SettleDelay
		if app.Config.App.Env == "test" {
			settle = 0
		}

		server := &http.Server{
			Addr:    addr,
			Handler: newDispatchHandler(svc, settle),
		}

		logging.Info(ctx, "dispatch server started", slog.String("addr", addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "dispatch server failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "serve dispatch")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type dispatchService interface {
	Dispatch(ctx context.Context, ev review.Event) error
}

type dispatchHTTPHandler struct {
	svc    dispatchService
	settle time.Duration
}

func newDispatchHandler(svc dispatchService, settle time.Duration) http.Handler {
	h := &dispatchHTTPHandler{svc: svc, settle: settle}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/heartbeat", h.handleHeartbeat)
	r.Post("/dispatch", h.handleDispatch)
	return r
}

func (h *dispatchHTTPHandler) handleHeartbeat(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "BOOM boom. BOOM boom. BOOM boom.")
}

func (h *dispatchHTTPHandler) handleDispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// GitHub delivers the comment webhook before the comment is always
	// readable through the API; a short pause avoids racing it.
	if h.settle > 0 {
		select {
		case <-time.After(h.settle):
		case <-ctx.Done():
			return
		}
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	ev, err := review.ParseEvent(payload)
	if err != nil {
		logging.Warn(ctx, "rejecting malformed payload", slog.Any("err", errs.Loggable(err)))
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	if err := h.svc.Dispatch(ctx, ev); err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			logging.Error(ctx, "dispatch failed", slog.Any("err", errs.Loggable(err)))
		}
		w.WriteHeader(status)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func statusFor(err error) int {
	var notAuthorized *review.NotAuthorizedError
	switch {
	case errors.As(err, &notAuthorized):
		return http.StatusForbidden
	case errors.Is(err, review.ErrUnknownRepository),
		errors.Is(err, review.ErrMissingAssignment),
		errors.Is(err, review.ErrAlreadyStarted),
		errors.Is(err, review.ErrMalformedPayload):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
