package cart

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/platterclub/platter/internal/auth"
	"github.com/platterclub/platter/internal/menu"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	logger   apt.Logger
	config   *apt.Config
	tlm      *telemetry.HTTP
	store    *Store
	itemRepo menu.ItemRepo
}

type HandlerDeps struct {
	Store    *Store
	ItemRepo menu.ItemRepo
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
		store:    hd.Store,
		itemRepo: hd.ItemRepo,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)

		r.Route("/items", func(r chi.Router) {
			r.Post("/", h.AddItem)
			r.Patch("/{index}", h.UpdateQuantity)
			r.Post("/{index}/ingredients", h.ToggleIngredient)
			r.Delete("/{index}", h.RemoveItem)
		})
	})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetCart")
	defer finish()

	c := h.sessionCart(r)
	apt.RespondSuccess(w, CartResponse{Entries: c.Entries(), Total: c.Total()})
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearCart")
	defer finish()

	h.sessionCart(r).Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req AddItemRequest
	body := io.LimitReader(r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		log.Debug("invalid add item payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	itemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		log.Debug("invalid menu item ID", "menu_item_id", req.MenuItemID)
		apt.RespondError(w, http.StatusBadRequest, "Invalid menu item ID")
		return
	}

	item, err := h.itemRepo.Get(ctx, itemID)
	if err != nil {
		log.Error("cannot load menu item", "error", err, "menu_item_id", itemID.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve menu item")
		return
	}
	if item == nil {
		apt.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	c := h.sessionCart(r)
	entry := c.AddItem(item, req.Quantity)

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, entry)
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateQuantity")
	defer finish()

	log := h.log(r)

	index, ok := h.parseIndexParam(w, r, log)
	if !ok {
		return
	}

	var req QuantityRequest
	body := io.LimitReader(r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		log.Debug("invalid quantity payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	c := h.sessionCart(r)
	if err := c.SetQuantity(index, req.Quantity); err != nil {
		if errors.Is(err, ErrQuantityTooLow) {
			apt.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("cannot set quantity", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update quantity")
		return
	}

	apt.RespondSuccess(w, CartResponse{Entries: c.Entries(), Total: c.Total()})
}

func (h *Handler) ToggleIngredient(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ToggleIngredient")
	defer finish()

	log := h.log(r)

	index, ok := h.parseIndexParam(w, r, log)
	if !ok {
		return
	}

	var req IngredientRequest
	body := io.LimitReader(r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		log.Debug("invalid ingredient payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Ingredient == "" {
		apt.RespondError(w, http.StatusBadRequest, "ingredient is required")
		return
	}

	c := h.sessionCart(r)
	c.ToggleIngredient(index, req.Ingredient)

	apt.RespondSuccess(w, CartResponse{Entries: c.Entries(), Total: c.Total()})
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveItem")
	defer finish()

	log := h.log(r)

	index, ok := h.parseIndexParam(w, r, log)
	if !ok {
		return
	}

	h.sessionCart(r).Remove(index)
	w.WriteHeader(http.StatusNoContent)
}

type AddItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type IngredientRequest struct {
	Ingredient string `json:"ingredient"`
}

type CartResponse struct {
	Entries []Entry `json:"entries"`
	Total   float64 `json:"total"`
}

func (h *Handler) sessionCart(r *http.Request) *Cart {
	session := auth.SessionFrom(r.Context())
	return h.store.Get(session.CartKey())
}

func (h *Handler) parseIndexParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (int, bool) {
	indexStr := chi.URLParam(r, "index")
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		log.Debug("invalid entry index", "index", indexStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid entry index")
		return 0, false
	}
	return index, true
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
