package stats

import (
	"context"
	"log/slog"
	"net/http"

	"userdir/internal/http/api"
	"userdir/internal/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=statsService --structname=MockStatsService --filename=MockStatsService.go --output=../mocks --outpkg=mocks
type statsService interface {
	GetStatistics(ctx context.Context) (*api.StatsResponse, error)
}

type StatsHandler struct {
	log     *slog.Logger
	service statsService
}

func NewStatsHandler(log *slog.Logger, s statsService) *StatsHandler {
	return &StatsHandler{
		log:     log,
		service: s,
	}
}

func (h *StatsHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats.GetStatistics"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	resp, err := h.service.GetStatistics(r.Context())
	if err != nil {
		log.Error("error while retrieving statistics", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.InternalError())
		return
	}
	render.JSON(w, r, resp)
}
