package handler

import (
	"fmt"
	"net/http"

	"github.com/DukeRupert/kebaikan/internal/domain"
	"github.com/DukeRupert/kebaikan/internal/donation"
	"github.com/DukeRupert/kebaikan/internal/session"
)

// wizardOp runs op against the session's payment wizard.
func (h *Handler) wizardOp(w http.ResponseWriter, r *http.Request, req any, op func(wz *donation.Wizard) error) {
	h.respond(w, r, func(sess *session.Session) error {
		if req != nil {
			if err := decode(w, r, req); err != nil {
				return err
			}
		}
		wz, err := sess.Wizard()
		if err != nil {
			return err
		}
		return op(wz)
	})
}

type quickAmountRequest struct {
	Amount int64 `json:"amount"`
}

// SelectQuickAmount picks a preset amount.
func (h *Handler) SelectQuickAmount(w http.ResponseWriter, r *http.Request) {
	var req quickAmountRequest
	h.wizardOp(w, r, &req, func(wz *donation.Wizard) error {
		return wz.SelectQuickAmount(req.Amount)
	})
}

type textRequest struct {
	Text string `json:"text"`
}

// SetAmount stores the typed amount.
func (h *Handler) SetAmount(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	h.wizardOp(w, r, &req, func(wz *donation.Wizard) error {
		return wz.SetAmountText(req.Text)
	})
}

// SetMessage stores the donor message.
func (h *Handler) SetMessage(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	h.wizardOp(w, r, &req, func(wz *donation.Wizard) error {
		return wz.SetMessage(req.Text)
	})
}

type anonymousRequest struct {
	Anonymous bool `json:"anonymous"`
}

// SetAnonymous toggles the anonymous flag.
func (h *Handler) SetAnonymous(w http.ResponseWriter, r *http.Request) {
	var req anonymousRequest
	h.wizardOp(w, r, &req, func(wz *donation.Wizard) error {
		return wz.SetAnonymous(req.Anonymous)
	})
}

type methodRequest struct {
	Method string `json:"method"`
}

// SelectMethod chooses the payment method.
func (h *Handler) SelectMethod(w http.ResponseWriter, r *http.Request) {
	var req methodRequest
	h.wizardOp(w, r, &req, func(wz *donation.Wizard) error {
		return wz.SelectMethod(req.Method)
	})
}

type blurRequest struct {
	Field string `json:"field"`
}

type blurResponse struct {
	Field string `json:"field"`
	Valid bool   `json:"valid"`
}

// BlurDonationField silently re-checks the amount or message. Nothing is
// shown to the visitor; only the verdict is returned.
func (h *Handler) BlurDonationField(w http.ResponseWriter, r *http.Request) {
	const op = "handler.blur_donation_field"

	sess := h.currentSession(w, r)
	if sess == nil {
		return
	}
	var req blurRequest
	if err := decode(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	wz, err := sess.Wizard()
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	resp := blurResponse{Field: req.Field}
	switch req.Field {
	case donation.FieldAmount:
		resp.Valid = wz.BlurAmount()
	case donation.FieldMessage:
		resp.Valid = wz.BlurMessage()
	default:
		ErrorResponse(w, r, h.logger, domain.Invalid(op, fmt.Sprintf("unknown field %q", req.Field)))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Advance moves the wizard forward or starts the payment.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	h.wizardOp(w, r, nil, (*donation.Wizard).Advance)
}

// GoBack steps back, leaving the flow from the amount step.
func (h *Handler) GoBack(w http.ResponseWriter, r *http.Request) {
	h.wizardOp(w, r, nil, (*donation.Wizard).GoBack)
}

// Reset starts another donation from the success step.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.wizardOp(w, r, nil, (*donation.Wizard).Reset)
}

// ViewOtherDonations returns to the campaign list from the success step.
func (h *Handler) ViewOtherDonations(w http.ResponseWriter, r *http.Request) {
	h.wizardOp(w, r, nil, (*donation.Wizard).ViewOtherDonations)
}
