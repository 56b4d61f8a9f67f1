package participants

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/gonggu-lab/gonggu-backend/api/middleware"
	"github.com/gonggu-lab/gonggu-backend/api/responses"
	"github.com/gonggu-lab/gonggu-backend/api/validators"
	campaignsvc "github.com/gonggu-lab/gonggu-backend/internal/campaigns"
	participantsvc "github.com/gonggu-lab/gonggu-backend/internal/participants"
	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
)

// Engine is the participation surface the HTTP layer depends on.
type Engine interface {
	Join(ctx context.Context, input participantsvc.JoinInput) (*models.Participant, error)
	Modify(ctx context.Context, input participantsvc.ModifyInput) (*models.Participant, error)
	Withdraw(ctx context.Context, campaignID, userID uuid.UUID) error
	ConfirmPayment(ctx context.Context, campaignID, userID uuid.UUID) (*models.Participant, error)
	List(ctx context.Context, campaignID uuid.UUID) ([]models.Participant, error)
}

// CampaignReader resolves the viewer's relation to a campaign.
type CampaignReader interface {
	Get(ctx context.Context, id, viewerID uuid.UUID) (*campaignsvc.Detail, error)
}

const campaignIDParam = "campaignId"

func Join(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		userID, campaignID, err := actorAndCampaign(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req joinRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		participant, err := engine.Join(r.Context(), req.toInput(campaignID, userID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newParticipantView(participant))
	}
}

func Modify(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		userID, campaignID, err := actorAndCampaign(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req modifyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		participant, err := engine.Modify(r.Context(), req.toInput(campaignID, userID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newParticipantView(participant))
	}
}

func Withdraw(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		userID, campaignID, err := actorAndCampaign(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := engine.Withdraw(r.Context(), campaignID, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// ConfirmPayment records the caller's own deposit.
func ConfirmPayment(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		userID, campaignID, err := actorAndCampaign(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		participant, err := engine.ConfirmPayment(r.Context(), campaignID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newParticipantView(participant))
	}
}

// Roster lists every pledge with its deposit flag. Only the leader may read it.
func Roster(engine Engine, campaigns CampaignReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil || campaigns == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		userID, campaignID, err := actorAndCampaign(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := campaigns.Get(r.Context(), campaignID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !detail.IsOwner {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only the leader can view participants"))
			return
		}

		rows, err := engine.List(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newRosterView(rows))
	}
}

func actorAndCampaign(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	userID, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	campaignID, err := validators.ParseUUIDParam(r, campaignIDParam)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, campaignID, nil
}

func unavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "participation service unavailable")
}
