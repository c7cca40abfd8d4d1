package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/DukeRupert/kebaikan/internal/catalog"
	"github.com/DukeRupert/kebaikan/internal/domain"
	"github.com/DukeRupert/kebaikan/internal/session"
)

// campaignView is a campaign with the figures the cards display.
type campaignView struct {
	domain.Campaign
	Progress      string `json:"progress"`
	RaisedDisplay string `json:"raised_display"`
	TargetDisplay string `json:"target_display"`
}

func newCampaignView(cp domain.Campaign) campaignView {
	return campaignView{
		Campaign:      cp,
		Progress:      catalog.Progress(cp).StringFixed(2),
		RaisedDisplay: catalog.FormatRupiah(cp.Raised),
		TargetDisplay: catalog.FormatRupiah(cp.Target),
	}
}

// ListCategories returns the filter tabs, "All" first.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Categories())
}

// ListCampaigns filters the catalog by the category and q query parameters.
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	matches := h.catalog.Filter(q.Get("category"), q.Get("q"))

	views := make([]campaignView, 0, len(matches))
	for _, cp := range matches {
		views = append(views, newCampaignView(cp))
	}
	writeJSON(w, http.StatusOK, views)
}

// GetCampaign returns one campaign.
func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	cp, ok := h.catalog.Get(id)
	if !ok {
		ErrorResponse(w, r, h.logger, domain.NotFound("handler.get_campaign", "campaign", strconv.Itoa(id)))
		return
	}
	writeJSON(w, http.StatusOK, newCampaignView(cp))
}

// SelectCampaign opens a campaign's detail page for the visitor.
func (h *Handler) SelectCampaign(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(sess *session.Session) error {
		id, err := campaignID(r)
		if err != nil {
			return err
		}
		_, err = sess.SelectCampaign(id)
		return err
	})
}

// StartDonation mounts the payment wizard for a campaign. An id of 0
// donates to the selected or default campaign.
func (h *Handler) StartDonation(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(sess *session.Session) error {
		id, err := campaignID(r)
		if err != nil {
			return err
		}
		_, err = sess.StartDonation(id)
		return err
	})
}

func campaignID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return 0, domain.Invalid("handler.campaign_id", fmt.Sprintf("invalid campaign id %q", raw))
	}
	return id, nil
}
