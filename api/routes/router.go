package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gonggu-lab/gonggu-backend/api/controllers"
	campaigncontrollers "github.com/gonggu-lab/gonggu-backend/api/controllers/campaigns"
	participantcontrollers "github.com/gonggu-lab/gonggu-backend/api/controllers/participants"
	"github.com/gonggu-lab/gonggu-backend/api/middleware"
	"github.com/gonggu-lab/gonggu-backend/internal/notifications"
	"github.com/gonggu-lab/gonggu-backend/pkg/config"
	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
)

// Deps are the services mounted by NewRouter. Nil pingers are left out of
// the readiness probe.
type Deps struct {
	DB            controllers.Pinger
	Redis         controllers.Pinger
	Gatherer      prometheus.Gatherer
	Campaigns     campaigncontrollers.Service
	Participants  participantcontrollers.Engine
	Notifications notifications.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Notify.FrontURL),
		middleware.Actor(logg),
	)

	pingers := map[string]controllers.Pinger{}
	if deps.DB != nil {
		pingers["db"] = deps.DB
	}
	if deps.Redis != nil {
		pingers["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/options", controllers.Options())

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", campaigncontrollers.ListCampaigns(deps.Campaigns, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireActor(logg))
				r.Post("/", campaigncontrollers.CreateCampaign(deps.Campaigns, logg))
				r.Get("/me/created", campaigncontrollers.MyCreatedCampaigns(deps.Campaigns, logg))
				r.Get("/me/participated", campaigncontrollers.MyParticipatedCampaigns(deps.Campaigns, logg))
			})

			r.Route("/{campaignId}", func(r chi.Router) {
				r.Get("/", campaigncontrollers.GetCampaign(deps.Campaigns, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireActor(logg))
					r.Patch("/", campaigncontrollers.UpdateCampaign(deps.Campaigns, logg))
					r.Post("/status", campaigncontrollers.TransitionCampaign(deps.Campaigns, logg))
					r.Post("/cancel", campaigncontrollers.CancelCampaign(deps.Campaigns, logg))

					r.Route("/participants", func(r chi.Router) {
						r.Get("/", participantcontrollers.Roster(deps.Participants, deps.Campaigns, logg))
						r.Post("/", participantcontrollers.Join(deps.Participants, logg))
						r.Patch("/me", participantcontrollers.Modify(deps.Participants, logg))
						r.Delete("/me", participantcontrollers.Withdraw(deps.Participants, logg))
						r.Post("/me/payment", participantcontrollers.ConfirmPayment(deps.Participants, logg))
					})
				})
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(middleware.RequireActor(logg))
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})
	})

	return r
}
