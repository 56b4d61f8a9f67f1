package campaigns

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gonggu-lab/gonggu-backend/api/middleware"
	"github.com/gonggu-lab/gonggu-backend/api/responses"
	"github.com/gonggu-lab/gonggu-backend/api/validators"
	campaignsvc "github.com/gonggu-lab/gonggu-backend/internal/campaigns"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
	"github.com/gonggu-lab/gonggu-backend/pkg/types"
)

// Service is the campaign surface the HTTP layer depends on.
type Service interface {
	Create(ctx context.Context, input campaignsvc.CreateInput) (*campaignsvc.View, error)
	Update(ctx context.Context, input campaignsvc.UpdateInput) (*campaignsvc.View, error)
	Get(ctx context.Context, id, viewerID uuid.UUID) (*campaignsvc.Detail, error)
	List(ctx context.Context, filter campaignsvc.ListFilter) (*types.Page[campaignsvc.View], error)
	ListByLeader(ctx context.Context, leaderID uuid.UUID, limit, offset int) (*types.Page[campaignsvc.View], error)
	ListParticipated(ctx context.Context, userID uuid.UUID, limit, offset int) (*types.Page[campaignsvc.View], error)
	RequestTransition(ctx context.Context, input campaignsvc.TransitionInput) (*campaignsvc.View, error)
	Cancel(ctx context.Context, input campaignsvc.CancelInput) (*campaignsvc.View, error)
}

const (
	campaignIDParam = "campaignId"
	maxPageLimit    = 100
)

func CreateCampaign(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		actorID, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, unauthorized())
			return
		}

		var req createRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput(actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// ListCampaigns searches campaigns by keyword, category and status.
func ListCampaigns(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}

		limit, offset, err := parsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter := campaignsvc.ListFilter{
			Keyword: strings.TrimSpace(r.URL.Query().Get("keyword")),
			Limit:   limit,
			Offset:  offset,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, invalidField("category", err))
				return
			}
			filter.Category = category
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseCampaignStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, invalidField("status", err))
				return
			}
			filter.Status = status
		}

		page, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetCampaign renders the detail page; viewer flags are filled when the
// request carries an actor.
func GetCampaign(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		campaignID, err := validators.ParseUUIDParam(r, campaignIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		viewerID, _ := middleware.ActorFromContext(r.Context())

		detail, err := svc.Get(r.Context(), campaignID, viewerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func UpdateCampaign(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		actorID, campaignID, err := actorAndCampaign(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput(campaignID, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// TransitionCampaign applies a leader-requested status change.
func TransitionCampaign(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		actorID, campaignID, err := actorAndCampaign(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req transitionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseCampaignStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, invalidField("status", err))
			return
		}

		view, err := svc.RequestTransition(r.Context(), campaignsvc.TransitionInput{
			CampaignID: campaignID,
			Target:     target,
			ActorID:    actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CancelCampaign(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		actorID, campaignID, err := actorAndCampaign(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req cancelRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		reason, err := enums.ParseCancelReason(req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidCancelReason, err, "unknown cancel reason"))
			return
		}

		view, err := svc.Cancel(r.Context(), campaignsvc.CancelInput{
			CampaignID:    campaignID,
			ActorID:       actorID,
			Reason:        reason,
			NonDepositors: req.NonDepositors,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func MyCreatedCampaigns(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		actorID, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, unauthorized())
			return
		}
		limit, offset, err := parsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListByLeader(r.Context(), actorID, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func MyParticipatedCampaigns(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		actorID, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, unauthorized())
			return
		}
		limit, offset, err := parsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListParticipated(r.Context(), actorID, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func parsePage(r *http.Request) (int, int, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxPageLimit)
	if err != nil {
		return 0, 0, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func actorAndCampaign(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	actorID, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return uuid.Nil, uuid.Nil, unauthorized()
	}
	campaignID, err := validators.ParseUUIDParam(r, campaignIDParam)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return actorID, campaignID, nil
}

func unavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable")
}

func unauthorized() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
}
