// ABOUTME: HTTP handlers for the journey and cron fare feed endpoints
// ABOUTME: Parses and validates queries, resolves fares, and renders JSON Feed output

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"farefeed-api/api/dto/mappers"
	"farefeed-api/api/dto/requests"
	"farefeed-api/api/dto/responses"
	"farefeed-api/core/domain"
	cerrors "farefeed-api/core/errors"
	"farefeed-api/core/fares"
	"farefeed-api/core/feed"
	"farefeed-api/core/interfaces"
	"farefeed-api/core/schedule"
	"farefeed-api/core/stations"
)

// FeedHandler serves the fare feed endpoints
type FeedHandler struct {
	stations   *stations.Service
	dispatcher *fares.Dispatcher
	feeds      *feed.Service
	logger     interfaces.Logger
	queryLimit int
	debug      bool

	// now is injectable for tests
	now func() time.Time
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(
	stationSvc *stations.Service,
	dispatcher *fares.Dispatcher,
	feedSvc *feed.Service,
	logger interfaces.Logger,
	queryLimit int,
	debug bool,
) *FeedHandler {
	return &FeedHandler{
		stations:   stationSvc,
		dispatcher: dispatcher,
		feeds:      feedSvc,
		logger:     logger,
		queryLimit: queryLimit,
		debug:      debug,
		now:        time.Now,
	}
}

// HandleJourney serves GET / and GET /journey: an explicit departure
// instant with optional weekly repeats.
func (h *FeedHandler) HandleJourney(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	req := requests.ParseJourneyQuery(r.URL.Query(), now)
	if ve := req.Validate(); ve.HasErrors() {
		writeError(w, ve, h.debug)
		return
	}

	sched, err := req.Schedule(now)
	if err != nil {
		ve := &cerrors.ValidationError{}
		ve.Add("Invalid departure date")
		writeError(w, ve, h.debug)
		return
	}

	h.respond(r.Context(), w, req.FromCode, req.ToCode, sched, now)
}

// HandleCron serves GET /cron: the next occurrences of a cron expression.
func (h *FeedHandler) HandleCron(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	req := requests.ParseCronQuery(r.URL.Query(), h.queryLimit)
	if ve := req.Validate(); ve.HasErrors() {
		writeError(w, ve, h.debug)
		return
	}

	sched, err := req.Schedule()
	if err != nil {
		ve := &cerrors.ValidationError{}
		ve.Add("Invalid count")
		writeError(w, ve, h.debug)
		return
	}

	h.respond(r.Context(), w, req.FromCode, req.ToCode, sched, now)
}

// respond runs the shared resolution pipeline: station lookup, candidate
// expansion, concurrent dispatch, feed assembly.
func (h *FeedHandler) respond(ctx context.Context, w http.ResponseWriter, fromCode, toCode string, sched domain.Schedule, now time.Time) {
	query := domain.Query{
		FromCode: strings.ToUpper(fromCode),
		ToCode:   strings.ToUpper(toCode),
		Schedule: sched,
	}

	fromID, fromErr := h.stations.StationID(ctx, query.FromCode)
	toID, toErr := h.stations.StationID(ctx, query.ToCode)
	if fromErr != nil || toErr != nil || fromID == "" || toID == "" {
		// Lookup failures are validation-class, not transport errors
		ve := &cerrors.ValidationError{}
		ve.Add("Missing station id(s)")
		writeError(w, ve, h.debug)
		return
	}
	query.FromID = fromID
	query.ToID = toID

	if err := query.CheckDispatchable(); err != nil {
		ve := &cerrors.ValidationError{}
		ve.Add(err.Error())
		writeError(w, ve, h.debug)
		return
	}

	instants, err := schedule.Expand(query.Schedule, now)
	if err != nil {
		ve := &cerrors.ValidationError{}
		ve.Add("Invalid cron expression")
		writeError(w, ve, h.debug)
		return
	}

	h.logger.Info("Resolving fare query", map[string]interface{}{
		"journey":    query.Journey(),
		"candidates": len(instants),
	})

	resolutions, err := h.dispatcher.Resolve(ctx, query, instants)
	if err != nil {
		writeError(w, err, h.debug)
		return
	}

	feedModel := h.feeds.Build(query, resolutions, now)
	writeFeed(w, mappers.ToJSONFeed(feedModel))
}

// writeFeed writes a JSON Feed response with its dedicated media type
func writeFeed(w http.ResponseWriter, body responses.JSONFeed) {
	w.Header().Set("Content-Type", responses.ContentType)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}
