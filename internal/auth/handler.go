package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

// CartDestroyer lets session teardown drop the session's cart without the
// auth package depending on the cart package.
type CartDestroyer interface {
	Destroy(key string)
}

type Handler struct {
	logger   apt.Logger
	config   *apt.Config
	tlm      *telemetry.HTTP
	userRepo UserRepo
	issuer   *TokenIssuer
	carts    CartDestroyer
	internal func(http.Handler) http.Handler
	admin    func(http.Handler) http.Handler
}

type HandlerDeps struct {
	UserRepo UserRepo
	Issuer   *TokenIssuer
	Carts    CartDestroyer

	// InternalGate restricts the identity endpoints that trust
	// upstream-asserted uids. These must never face the public network.
	InternalGate func(http.Handler) http.Handler
	AdminGate    func(http.Handler) http.Handler
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	internal := hd.InternalGate
	if internal == nil {
		internal = func(next http.Handler) http.Handler { return next }
	}
	admin := hd.AdminGate
	if admin == nil {
		admin = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
		userRepo: hd.UserRepo,
		issuer:   hd.Issuer,
		carts:    hd.Carts,
		internal: internal,
		admin:    admin,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.internal)
			r.Post("/users", h.RegisterUser)
			r.Post("/sessions", h.CreateSession)
		})

		r.With(h.admin).Put("/users/{uid}/role", h.AssignRole)

		r.Delete("/sessions", h.EndSession)
	})
}

// RegisterUser stores the profile for an identity asserted upstream.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RegisterUser")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req UserRegisterRequest
	body := io.LimitReader(r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		log.Debug("invalid register payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if strings.TrimSpace(req.UID) == "" || strings.TrimSpace(req.Email) == "" {
		apt.RespondError(w, http.StatusBadRequest, "uid and email are required")
		return
	}

	user := &User{
		ID:        strings.TrimSpace(req.UID),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     req.Email,
	}
	user.BeforeCreate()

	if err := h.userRepo.Create(ctx, user); err != nil {
		log.Error("cannot create user", "error", err, "uid", user.ID)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create user")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, user)
}

// CreateSession exchanges an upstream-asserted identity for a signed session
// token. The role is resolved here, once, from the stored user profile and
// then travels inside the token.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateSession")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req SessionCreateRequest
	body := io.LimitReader(r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		log.Debug("invalid session payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	uid := strings.TrimSpace(req.UID)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if uid == "" || email == "" {
		apt.RespondError(w, http.StatusBadRequest, "uid and email are required")
		return
	}

	role := RoleCustomer
	user, err := h.userRepo.Get(ctx, uid)
	if err != nil {
		log.Error("cannot load user profile", "error", err, "uid", uid)
		apt.RespondError(w, http.StatusInternalServerError, "Could not resolve session")
		return
	}
	if user != nil && user.Role != "" {
		role = user.Role
	}

	session := &Session{UserID: uid, Email: email, Role: role}
	token, err := h.issuer.Issue(session)
	if err != nil {
		log.Error("cannot issue session token", "error", err, "uid", uid)
		apt.RespondError(w, http.StatusInternalServerError, "Could not issue session token")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, SessionResponse{Token: token, Session: session})
}

// AssignRole changes a user's stored role. New sessions pick up the new
// role at issue time; tokens already in flight keep the old one until
// they expire.
func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AssignRole")
	defer finish()

	log := h.log(r)
	ctx := r.Context()
	uid := chi.URLParam(r, "uid")

	var req RoleAssignRequest
	body := io.LimitReader(r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		log.Debug("invalid role payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	role := strings.TrimSpace(req.Role)
	if role != RoleCustomer && role != RoleAdmin {
		apt.RespondError(w, http.StatusBadRequest, "role must be customer or admin")
		return
	}

	user, err := h.userRepo.Get(ctx, uid)
	if err != nil {
		log.Error("cannot load user profile", "error", err, "uid", uid)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load user")
		return
	}
	if user == nil {
		apt.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	user.Role = role
	user.BeforeUpdate()

	if err := h.userRepo.Save(ctx, user); err != nil {
		log.Error("cannot update user role", "error", err, "uid", uid)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update user")
		return
	}

	apt.RespondSuccess(w, user)
}

// EndSession tears down the caller's session-scoped state. The token itself
// simply expires; what gets destroyed here is the cart.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.EndSession")
	defer finish()

	session := SessionFrom(r.Context())
	if h.carts != nil && !session.IsGuest() {
		h.carts.Destroy(session.CartKey())
	}

	w.WriteHeader(http.StatusNoContent)
}

type UserRegisterRequest struct {
	UID       string `json:"uid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

type SessionCreateRequest struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type RoleAssignRequest struct {
	Role string `json:"role"`
}

type SessionResponse struct {
	Token   string   `json:"token"`
	Session *Session `json:"session"`
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
