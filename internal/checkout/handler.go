package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

const (
	msgSubmitFailed  = "Could not place the order right now. Please try again."
	msgModalNotFound = "This checkout is no longer open."
	modalEventName   = "order-modal"
)

type Handler struct {
	logger    apt.Logger
	tlm       *telemetry.HTTP
	settings  Settings
	renderer  Renderer
	store     *ModalStore
	submitter Submitter
	publisher events.Publisher
	audit     *AuditLogger
}

type HandlerDeps struct {
	Renderer  Renderer
	Store     *ModalStore
	Submitter Submitter
	Publisher events.Publisher
}

// modalPage is the data passed to the modal templates.
type modalPage struct {
	Title string
	Modal ModalView
	Base  string
}

type confirmationPage struct {
	Title   string
	OrderID string
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) (*Handler, error) {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if hd.Renderer == nil {
		return nil, errors.New("checkout handler requires a renderer")
	}

	settings, err := LoadSettings(config)
	if err != nil {
		return nil, err
	}

	store := hd.Store
	if store == nil {
		store = NewModalStore(settings.ModalTTL)
	}

	submitter := hd.Submitter
	if submitter == nil {
		submitter = NewHTTPSubmitter(settings.OrdersEndpoint, nil, settings.SubmitTimeout)
	}

	return &Handler{
		logger:    logger,
		tlm:       telemetry.NewHTTP(),
		settings:  settings,
		renderer:  hd.Renderer,
		store:     store,
		submitter: submitter,
		publisher: hd.Publisher,
		audit:     NewAuditLogger(logger),
	}, nil
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/checkout", func(r chi.Router) {
		r.Post("/", h.OpenModal)
		r.Get("/{id}", h.ShowModal)
		r.Post("/{id}/fields/{field}", h.ChangeField)
		r.Post("/{id}/phone/blur", h.BlurPhone)
		r.Post("/{id}/place-order", h.PlaceOrder)
		r.Post("/{id}/dismiss-error", h.DismissError)
		r.Post("/{id}/close", h.CloseModal)
	})

	r.Get(h.settings.ConfirmationPath+"/{id}", h.Confirmation)
}

// Store exposes the modal store so its cleanup can be tied to the service lifecycle.
func (h *Handler) Store() *ModalStore {
	return h.store
}

// OpenModal mounts a new checkout modal for the posted order items.
func (h *Handler) OpenModal(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.OpenModal")
	defer finish()

	log := h.log(r)

	items, err := h.decodeItems(w, r)
	if err != nil {
		log.Debug("invalid order items", "error", err)
		http.Error(w, "Invalid order items", http.StatusBadRequest)
		return
	}

	modal := h.store.Open(items)
	h.audit.LogOpened(r.Context(), modal.ID)
	log.Debug("checkout modal opened", "modal_id", modal.ID)

	if !apt.IsHTMX(r) {
		http.Redirect(w, r, h.modalPath(modal.ID), http.StatusSeeOther)
		return
	}

	h.renderModal(w, modal, "checkout_modal")
}

// ShowModal renders an open modal, as a fragment for htmx or as a page.
func (h *Handler) ShowModal(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ShowModal")
	defer finish()

	modal, ok := h.findModal(w, r)
	if !ok {
		return
	}

	name := "checkout_page"
	if apt.IsHTMX(r) {
		name = "checkout_modal"
	}
	h.renderModal(w, modal, name)
}

// ChangeField applies a keystroke-level update to one form field.
func (h *Handler) ChangeField(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ChangeField")
	defer finish()

	modal, ok := h.findModal(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Could not read the submitted form", http.StatusBadRequest)
		return
	}

	field := chi.URLParam(r, "field")
	action, err := ParseFieldChanged(field, r.FormValue(field))
	if err != nil {
		h.log(r).Debug("rejected field change", "modal_id", modal.ID, "field", field)
		http.Error(w, "Unknown field", http.StatusBadRequest)
		return
	}

	modal.Dispatch(action)
	w.WriteHeader(http.StatusNoContent)
}

// BlurPhone re-formats the phone value and returns the updated input.
func (h *Handler) BlurPhone(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BlurPhone")
	defer finish()

	modal, ok := h.findModal(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Could not read the submitted form", http.StatusBadRequest)
		return
	}

	if _, present := r.Form[FieldPhone]; present {
		modal.Dispatch(FieldChanged{Field: FieldPhone, Value: r.FormValue(FieldPhone)})
	}
	modal.Dispatch(PhoneBlurred{})

	h.renderModal(w, modal, "checkout_phone_input")
}

// PlaceOrder validates the form and, when it is clean, submits the order.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PlaceOrder")
	defer finish()

	log := h.log(r)

	modal, ok := h.findModal(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Could not read the submitted form", http.StatusBadRequest)
		return
	}
	h.syncFields(modal, r)

	errs, payload, err := modal.Prepare()
	if errors.Is(err, ErrSubmissionInFlight) {
		h.audit.LogDuplicate(r.Context(), modal.ID)
		log.Info("duplicate order submission ignored", "modal_id", modal.ID)
		http.Error(w, "Order submission already in progress", http.StatusConflict)
		return
	}
	if len(errs) > 0 {
		h.audit.LogRejected(r.Context(), modal.ID, errs)
		log.Debug("order blocked by validation", "modal_id", modal.ID, "errors", len(errs))
		h.renderModal(w, modal, h.modalTemplate(r))
		return
	}

	// Closing the modal or dropping the connection does not abort a placement.
	ctx := context.WithoutCancel(r.Context())

	orderID, err := h.submitter.Submit(ctx, payload)
	if err != nil {
		modal.EndSubmit(msgSubmitFailed)
		h.audit.LogFailed(r.Context(), modal.ID, err)
		log.Error("order submission failed", "modal_id", modal.ID, "error", err)
		h.renderModal(w, modal, h.modalTemplate(r))
		return
	}

	modal.EndSubmit("")
	h.store.Close(modal.ID)
	h.audit.LogPlaced(r.Context(), modal.ID, orderID)
	log.Info("order placed", "modal_id", modal.ID, "order_id", orderID)

	h.publishOrderPlaced(ctx, modal.ID, orderID, payload)

	apt.RedirectOrHeader(w, r, h.settings.ConfirmationURL(orderID))
}

// DismissError hides the submission failure message.
func (h *Handler) DismissError(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DismissError")
	defer finish()

	modal, ok := h.findModal(w, r)
	if !ok {
		return
	}

	modal.DismissSubmitError()
	h.renderModal(w, modal, h.modalTemplate(r))
}

// CloseModal handles background clicks, key presses and the Close button.
func (h *Handler) CloseModal(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CloseModal")
	defer finish()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Could not read the submitted form", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	ev := DismissEvent{
		Kind: DismissKind(strings.TrimSpace(r.FormValue("event"))),
		Key:  r.FormValue("key"),
	}

	closed := Dismiss(ev, func(open bool) {
		h.store.Close(id)
		event := map[string]interface{}{modalEventName: map[string]bool{"open": open}}
		if err := apt.TriggerEvent(w, event); err != nil {
			h.log(r).Error("cannot set modal trigger", "modal_id", id, "error", err)
		}
	})
	if !closed {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.audit.LogClosed(r.Context(), id, ev.Kind)

	if !apt.IsHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// The modal container is swapped with an empty body.
	w.WriteHeader(http.StatusOK)
}

// Confirmation renders the view shown after an order was placed.
func (h *Handler) Confirmation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Confirmation")
	defer finish()

	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		http.Error(w, "Missing order ID", http.StatusBadRequest)
		return
	}

	data := confirmationPage{
		Title:   "Order Confirmed",
		OrderID: orderID,
	}

	if err := h.renderer.Render(w, confirmationTemplateFile, "order_confirmation", data); err != nil {
		h.log(r).Error("error rendering confirmation", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *Handler) findModal(w http.ResponseWriter, r *http.Request) (*Modal, bool) {
	id := chi.URLParam(r, "id")
	modal, err := h.store.Get(id)
	if err != nil {
		h.log(r).Debug("checkout modal unavailable", "modal_id", id, "error", err)
		http.Error(w, msgModalNotFound, http.StatusNotFound)
		return nil, false
	}
	return modal, true
}

// syncFields applies any field values sent along with a request so the
// validator sees what the customer currently has on screen.
func (h *Handler) syncFields(modal *Modal, r *http.Request) {
	for _, field := range []string{FieldName, FieldPhone, FieldAddress} {
		if _, present := r.Form[field]; present {
			modal.Dispatch(FieldChanged{Field: field, Value: r.FormValue(field)})
		}
	}
}

// decodeItems reads the order items from a JSON body ({"items": ...}) or
// from the "items" form value. Missing items yield an empty list.
func (h *Handler) decodeItems(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}

		var req struct {
			Items json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		return req.Items, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	raw := strings.TrimSpace(r.FormValue("items"))
	if raw == "" {
		return nil, nil
	}
	if !json.Valid([]byte(raw)) {
		return nil, errors.New("items is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

func (h *Handler) renderModal(w http.ResponseWriter, modal *Modal, name string) {
	data := modalPage{
		Title: "Place Order",
		Modal: modal.View(),
		Base:  h.modalPath(modal.ID),
	}

	if err := h.renderer.Render(w, modalTemplateFile, name, data); err != nil {
		h.logger.Error("error rendering template", "error", err, "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *Handler) modalTemplate(r *http.Request) string {
	if apt.IsHTMX(r) {
		return "checkout_modal"
	}
	return "checkout_page"
}

func (h *Handler) modalPath(id string) string {
	return "/checkout/" + id
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}
