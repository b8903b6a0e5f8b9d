package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"table-ordering/logging"
	"table-ordering/order-svc/internal/domain"
	"table-ordering/order-svc/internal/service"

	"github.com/gorilla/mux"
)

const maxImageBytes = 10 << 20

type Handler struct {
	Session  *service.Session
	Catalog  *service.Catalog
	Tables   *domain.TableSet
	Profile  *service.Profile
	Settings *service.Settings
	QR       service.QRGenerator
	Logger   *slog.Logger
}

func NewHandler(session *service.Session, catalog *service.Catalog, tables *domain.TableSet, profile *service.Profile, settings *service.Settings, qr service.QRGenerator, logger *slog.Logger) *Handler {
	return &Handler{
		Session:  session,
		Catalog:  catalog,
		Tables:   tables,
		Profile:  profile,
		Settings: settings,
		QR:       qr,
		Logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/tables", h.getTables).Methods("GET")
	r.HandleFunc("/api/tables/{number}/qrcode", h.getTableQRCode).Methods("GET")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/cart/lines/{lineId}/remove", h.removeCartLine).Methods("POST")
	r.HandleFunc("/api/cart/lines/{lineId}", h.deleteCartLine).Methods("DELETE")
	r.HandleFunc("/api/cart/lines/{lineId}/portion", h.setPortion).Methods("PUT")
	r.HandleFunc("/api/cart/table", h.setTable).Methods("PUT")
	r.HandleFunc("/api/cart/notes", h.setNotes).Methods("PUT")

	r.HandleFunc("/api/orders", h.submitOrder).Methods("POST")
	r.HandleFunc("/api/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/api/orders/active", h.getActiveOrder).Methods("GET")
	r.HandleFunc("/api/orders/active/{action:approve|complete|finalize}", h.advanceOrder).Methods("POST")
	r.HandleFunc("/api/events", h.streamEvents).Methods("GET")

	r.HandleFunc("/api/favorites", h.getFavorites).Methods("GET")
	r.HandleFunc("/api/favorites/{menuItemId}", h.toggleFavorite).Methods("POST")

	r.HandleFunc("/api/auth/register", h.register).Methods("POST")
	r.HandleFunc("/api/auth/login", h.login).Methods("POST")
	r.HandleFunc("/api/auth/logout", h.logout).Methods("POST")
	r.HandleFunc("/api/profile", h.getProfile).Methods("GET")
	r.HandleFunc("/api/profile", h.updateProfile).Methods("PATCH")
	r.HandleFunc("/api/profile/preferences", h.updatePreferences).Methods("PUT")
	r.HandleFunc("/api/profile/image", h.uploadProfileImage).Methods("PUT")

	r.HandleFunc("/api/settings", h.getSettings).Methods("GET")
	r.HandleFunc("/api/settings", h.updateSettings).Methods("PUT")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// --- menu and tables

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		writeJSON(w, http.StatusOK, h.Catalog.Items())
		return
	}
	if !domain.Category(category).Valid() {
		http.Error(w, "Unknown category", http.StatusUnprocessableEntity)
		return
	}
	items := h.Catalog.ByCategory(domain.Category(category))
	if items == nil {
		items = []domain.MenuItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

type tableResponse struct {
	Number int    `json:"number"`
	Code   string `json:"code"`
	QRCode string `json:"qr_code"`
}

func (h *Handler) getTables(w http.ResponseWriter, r *http.Request) {
	tables := h.Tables.Tables()
	response := make([]tableResponse, 0, len(tables))
	for _, t := range tables {
		response = append(response, tableResponse{
			Number: t.Number,
			Code:   t.Code(),
			QRCode: fmt.Sprintf("/api/tables/%d/qrcode", t.Number),
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) getTableQRCode(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		http.Error(w, "Invalid table number", http.StatusBadRequest)
		return
	}
	table, ok := h.Tables.Lookup(number)
	if !ok {
		http.Error(w, "Table not found", http.StatusNotFound)
		return
	}

	qr, err := h.QR.Generate(table)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qr)
}

// --- cart

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Session.CartView())
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.Session.ClearCart()
	writeJSON(w, http.StatusOK, h.Session.CartView())
}

type addItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := h.Session.AddItem(req.MenuItemID); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Session.CartView())
}

func (h *Handler) removeCartLine(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Session.RemoveItem(mux.Vars(r)["lineId"]); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Session.CartView())
}

func (h *Handler) deleteCartLine(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.DeleteItem(mux.Vars(r)["lineId"]); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Session.CartView())
}

type portionRequest struct {
	Portion string `json:"portion"`
}

func (h *Handler) setPortion(w http.ResponseWriter, r *http.Request) {
	var req portionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	size, err := domain.ParsePortionSize(req.Portion)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Session.SetPortion(mux.Vars(r)["lineId"], size); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Session.CartView())
}

// tableRequest carries either a scanned code or a picked number.
type tableRequest struct {
	Code   string `json:"code"`
	Number int    `json:"number"`
}

func (h *Handler) setTable(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var err error
	if req.Code != "" {
		_, err = h.Session.ScanTable(req.Code)
	} else {
		_, err = h.Session.SetTable(req.Number)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Session.CartView())
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) setNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Session.SetNotes(req.Notes)
	writeJSON(w, http.StatusOK, h.Session.CartView())
}

// --- orders

type orderResponse struct {
	Order       domain.Order      `json:"order"`
	Description string            `json:"description"`
	WritePath   service.WritePath `json:"write_path,omitempty"`
}

func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	order, path, err := h.Session.Submit(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, orderResponse{
		Order:       order,
		Description: order.Status.Description(),
		WritePath:   path,
	})
}

type ordersResponse struct {
	Orders []domain.Order     `json:"orders"`
	Source service.ReadSource `json:"source"`
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	source, err := h.Session.RefreshHistory(r.Context())
	if err != nil && !errors.Is(err, domain.ErrAbandoned) {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ordersResponse{Orders: h.Session.History(), Source: source})
}

func (h *Handler) getActiveOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.Session.ActiveOrder()
	if !ok {
		http.Error(w, "No active order", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: order, Description: order.Status.Description()})
}

func (h *Handler) advanceOrder(w http.ResponseWriter, r *http.Request) {
	actor := h.Profile.Actor()

	var advance func(context.Context, domain.Actor) (domain.Order, error)
	switch mux.Vars(r)["action"] {
	case "approve":
		advance = h.Session.Approve
	case "complete":
		advance = h.Session.Complete
	default:
		advance = h.Session.Finalize
	}

	order, err := advance(r.Context(), actor)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: order, Description: order.Status.Description()})
}

func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	events, cancel := h.Session.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				logging.FromContext(r.Context()).Error("encode event", slog.Any("error", err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind, data)
			flusher.Flush()
		}
	}
}

// --- favorites

func (h *Handler) getFavorites(w http.ResponseWriter, r *http.Request) {
	items := h.Session.Favorites()
	if items == nil {
		items = []domain.MenuItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["menuItemId"]
	favorite, err := h.Session.ToggleFavorite(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"menu_item_id": id, "favorite": favorite})
}

// --- auth and profile

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, err := h.Profile.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, err := h.Profile.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.Profile.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Profile.Current()
	if !ok {
		h.writeError(w, domain.ErrNoProfile)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, err := h.Profile.UpdateProfile(r.Context(), patch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs domain.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, err := h.Profile.UpdatePreferences(r.Context(), prefs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func (h *Handler) uploadProfileImage(w http.ResponseWriter, r *http.Request) {
	if !allowedImageTypes[r.Header.Get("Content-Type")] {
		http.Error(w, "Invalid file type. Only JPEG, PNG, GIF, WebP allowed", http.StatusBadRequest)
		return
	}
	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImageBytes))
	if err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}
	user, err := h.Profile.UpdateProfileImage(r.Context(), image)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// --- settings

type settingsPayload struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, settingsPayload{
		Language: string(h.Settings.Language()),
		Theme:    string(h.Settings.Theme()),
	})
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Language != "" {
		if err := h.Settings.SetLanguage(r.Context(), req.Language); err != nil {
			h.writeError(w, err)
			return
		}
	}
	if req.Theme != "" {
		if err := h.Settings.SetTheme(r.Context(), req.Theme); err != nil {
			h.writeError(w, err)
			return
		}
	}
	h.getSettings(w, r)
}

// --- responses

type errorResponse struct {
	Error  string             `json:"error"`
	Reason domain.GuardReason `json:"reason,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var guard *domain.GuardError
	if errors.As(err, &guard) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Reason: guard.Reason})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownTable),
		errors.Is(err, domain.ErrInvalidPortion),
		errors.Is(err, domain.ErrInvalidSetting),
		errors.Is(err, domain.ErrWeakPassword):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrLineNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrNoProfile):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrAbandoned):
		status = http.StatusConflict
	case errors.Is(err, context.Canceled):
		return
	}

	if status == http.StatusInternalServerError {
		h.Logger.Error("request failed", slog.Any("error", err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
