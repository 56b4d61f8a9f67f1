package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gonggu-lab/gonggu-backend/api/middleware"
	"github.com/gonggu-lab/gonggu-backend/api/responses"
	"github.com/gonggu-lab/gonggu-backend/api/validators"
	"github.com/gonggu-lab/gonggu-backend/internal/notifications"
	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
	"github.com/gonggu-lab/gonggu-backend/pkg/types"
)

// NotificationView is one inbox entry.
type NotificationView struct {
	ID         uuid.UUID              `json:"id"`
	CampaignID *uuid.UUID             `json:"campaignId,omitempty"`
	Type       enums.NotificationType `json:"type"`
	Title      string                 `json:"title"`
	Body       string                 `json:"body"`
	Link       *string                `json:"link,omitempty"`
	ReadAt     *time.Time             `json:"readAt,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

func newNotificationPage(page *types.Page[models.Notification]) types.Page[NotificationView] {
	items := make([]NotificationView, 0, len(page.Items))
	for _, n := range page.Items {
		items = append(items, NotificationView{
			ID:         n.ID,
			CampaignID: n.CampaignID,
			Type:       n.Type,
			Title:      n.Title,
			Body:       n.Body,
			Link:       n.Link,
			ReadAt:     n.ReadAt,
			CreatedAt:  n.CreatedAt,
		})
	}
	return types.Page[NotificationView]{Items: items, Total: page.Total, Limit: page.Limit, Offset: page.Offset}
}

// ListNotifications returns the caller's inbox, newest first.
func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		userID, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		params := notifications.ListParams{UserID: userID}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.Limit = limit

		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.Offset = offset

		unreadOnly, err := validators.ParseQueryBool(r, "unreadOnly", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.UnreadOnly = unreadOnly

		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newNotificationPage(page))
	}
}

// MarkNotificationRead marks one inbox entry as read.
func MarkNotificationRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		userID, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		notificationID, err := validators.ParseUUIDParam(r, "notificationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkRead(r.Context(), userID, notificationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"read": true})
	}
}

// MarkAllNotificationsRead marks the caller's whole inbox as read.
func MarkAllNotificationsRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		userID, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		updated, err := svc.MarkAllRead(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"updated": updated})
	}
}
