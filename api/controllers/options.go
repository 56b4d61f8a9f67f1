package controllers

import (
	"net/http"

	"github.com/gonggu-lab/gonggu-backend/api/responses"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
)

type optionsResponse struct {
	Categories    []enums.Option `json:"categories"`
	Statuses      []enums.Option `json:"statuses"`
	CancelReasons []enums.Option `json:"cancelReasons"`
}

// Options lists the enum values clients render as select inputs.
func Options() http.HandlerFunc {
	payload := optionsResponse{
		Categories:    enums.ProductCategoryOptions(),
		Statuses:      enums.CampaignStatusOptions(),
		CancelReasons: enums.CancelReasonOptions(),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, payload)
	}
}
