package booking

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/platterclub/platter/internal/auth"
	"github.com/platterclub/platter/internal/cart"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	logger    apt.Logger
	config    *apt.Config
	tlm       *telemetry.HTTP
	scheduler *Scheduler
	registry  *SlotRegistry
	orderRepo OrderRepo
	carts     *cart.Store
	capacity  Thresholds
	admin     func(http.Handler) http.Handler
}

type HandlerDeps struct {
	Scheduler *Scheduler
	Registry  *SlotRegistry
	OrderRepo OrderRepo
	Carts     *cart.Store
	Capacity  Thresholds
	AdminGate func(http.Handler) http.Handler
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	admin := hd.AdminGate
	if admin == nil {
		admin = func(next http.Handler) http.Handler { return next }
	}
	capacity := hd.Capacity
	if capacity.MaxOrders == 0 && capacity.MaxItems == 0 {
		capacity = DefaultThresholds()
	}
	return &Handler{
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
		scheduler: hd.Scheduler,
		registry:  hd.Registry,
		orderRepo: hd.OrderRepo,
		carts:     hd.Carts,
		capacity:  capacity,
		admin:     admin,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dates/{date}/slots", func(r chi.Router) {
		r.Get("/", h.ListSlots)

		r.Group(func(r chi.Router) {
			r.Use(h.admin)
			r.Post("/", h.AddSlot)
			r.Delete("/", h.RemoveSlot)
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.SubmitOrder)
		r.Get("/{number}", h.GetOrder)

		r.With(h.admin).Get("/", h.ListOrders)
	})

	r.Route("/admin/dates", func(r chi.Router) {
		r.Use(h.admin)
		r.Get("/", h.ListDates)
		r.Get("/{date}", h.DateSummary)
	})
}

// Slot handlers

func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListSlots")
	defer finish()

	log := h.log(r)
	date := chi.URLParam(r, "date")

	slots, err := h.registry.Slots(r.Context(), date)
	if err != nil {
		log.Error("cannot load slots", "error", err, "date", date)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve time slots")
		return
	}
	if slots == nil {
		slots = []string{}
	}

	apt.RespondSuccess(w, SlotListResponse{Date: date, Slots: slots})
}

func (h *Handler) AddSlot(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddSlot")
	defer finish()

	log := h.log(r)
	date := chi.URLParam(r, "date")
	if !validDate(date) {
		apt.RespondError(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}

	var req SlotRequest
	body := io.LimitReader(r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		log.Debug("invalid slot payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.registry.AddSlot(r.Context(), date, req.Label); err != nil {
		switch {
		case errors.Is(err, ErrEmptySlotLabel):
			apt.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrDuplicateSlot):
			apt.RespondError(w, http.StatusConflict, err.Error())
		default:
			log.Error("cannot add slot", "error", err, "date", date)
			apt.RespondError(w, http.StatusInternalServerError, "Could not add time slot")
		}
		return
	}

	slots, err := h.registry.Slots(r.Context(), date)
	if err != nil {
		log.Error("cannot reload slots", "error", err, "date", date)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve time slots")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, SlotListResponse{Date: date, Slots: slots})
}

func (h *Handler) RemoveSlot(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveSlot")
	defer finish()

	log := h.log(r)
	date := chi.URLParam(r, "date")
	if !validDate(date) {
		apt.RespondError(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}

	label := strings.TrimSpace(r.URL.Query().Get("label"))
	if label == "" {
		apt.RespondError(w, http.StatusBadRequest, "label query parameter is required")
		return
	}

	if err := h.registry.RemoveSlot(r.Context(), date, label); err != nil {
		log.Error("cannot remove slot", "error", err, "date", date, "slot", label)
		apt.RespondError(w, http.StatusInternalServerError, "Could not remove time slot")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Order handlers

func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SubmitOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()
	session := auth.SessionFrom(ctx)

	var req SubmitRequest
	body := io.LimitReader(r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		log.Debug("invalid order payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	sessionCart := h.carts.Get(session.CartKey())
	order, err := h.scheduler.Submit(ctx, session, sessionCart, req)
	if err != nil {
		h.respondSubmitError(w, log, err)
		return
	}

	links := apt.RESTfulLinksFor(order)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()
	session := auth.SessionFrom(ctx)
	number := chi.URLParam(r, "number")

	order, err := h.orderRepo.GetByNumber(ctx, number)
	if err != nil {
		log.Error("error loading order", "error", err, "order_id", number)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve order")
		return
	}
	if order == nil {
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	if !session.IsAdmin() && order.UserID != session.UserID {
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	links := apt.RESTfulLinksFor(order)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	date := r.URL.Query().Get("date")

	var orders []*Order
	var err error
	if date != "" {
		orders, err = h.orderRepo.ListByDate(ctx, date)
	} else {
		orders, err = h.orderRepo.List(ctx)
	}
	if err != nil {
		log.Error("error retrieving orders", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}

	apt.RespondCollection(w, orders, "order")
}

// Admin aggregation views

func (h *Handler) ListDates(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListDates")
	defer finish()

	log := h.log(r)

	orders, err := h.orderRepo.List(r.Context())
	if err != nil {
		log.Error("error retrieving orders", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}

	grouped := GroupByDate(orders)
	overview := make([]DateOverview, 0, len(grouped))
	for date, bucket := range grouped {
		overview = append(overview, DateOverview{Date: date, Orders: len(bucket)})
	}
	sort.Slice(overview, func(i, j int) bool { return overview[i].Date < overview[j].Date })

	apt.RespondSuccess(w, overview)
}

func (h *Handler) DateSummary(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DateSummary")
	defer finish()

	log := h.log(r)
	ctx := r.Context()
	date := chi.URLParam(r, "date")

	orders, err := h.orderRepo.ListByDate(ctx, date)
	if err != nil {
		log.Error("error retrieving orders", "error", err, "date", date)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}

	slots, err := h.registry.Slots(ctx, date)
	if err != nil {
		log.Error("cannot load slots", "error", err, "date", date)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve time slots")
		return
	}

	stats := StatsForDate(orders, date)

	summaries := make([]SlotSummary, 0, len(slots))
	seen := make(map[string]bool, len(slots))
	for _, label := range slots {
		s := stats[label]
		summaries = append(summaries, SlotSummary{
			Label: label,
			Count: s.Count,
			Items: s.Items,
			Full:  IsFull(stats, label, h.capacity),
		})
		seen[label] = true
	}

	// Orders can reference slots the admin removed afterwards; keep their
	// numbers visible after the registered ones.
	var orphaned []string
	for label := range stats {
		if !seen[label] {
			orphaned = append(orphaned, label)
		}
	}
	sort.Strings(orphaned)
	for _, label := range orphaned {
		s := stats[label]
		summaries = append(summaries, SlotSummary{
			Label: label,
			Count: s.Count,
			Items: s.Items,
			Full:  IsFull(stats, label, h.capacity),
		})
	}

	apt.RespondSuccess(w, DaySummary{Date: date, Orders: orders, Slots: summaries})
}

func (h *Handler) respondSubmitError(w http.ResponseWriter, log apt.Logger, err error) {
	var perr *PersistenceError
	switch {
	case errors.Is(err, ErrSlotFull):
		apt.RespondError(w, http.StatusConflict, err.Error())
	case IsValidation(err):
		apt.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &perr):
		log.Error("cannot persist order", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not store order")
	default:
		log.Error("order submission failed", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not submit order")
	}
}

type SlotRequest struct {
	Label string `json:"label"`
}

type SlotListResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type DateOverview struct {
	Date   string `json:"date"`
	Orders int    `json:"orders"`
}

type SlotSummary struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Items int    `json:"items"`
	Full  bool   `json:"full"`
}

type DaySummary struct {
	Date   string        `json:"date"`
	Orders []*Order      `json:"orders"`
	Slots  []SlotSummary `json:"slots"`
}

// validDate guards the slot write paths: a mistyped date segment would
// otherwise persist a slot document no order can ever reference.
func validDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
