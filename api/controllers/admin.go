package controllers

import (
	"net/http"

	"github.com/arshoplabs/arshop-backend/api/responses"
	adminsvc "github.com/arshoplabs/arshop-backend/internal/admin"
	catalogsvc "github.com/arshoplabs/arshop-backend/internal/catalog"
	pkgerrors "github.com/arshoplabs/arshop-backend/pkg/errors"
	"github.com/arshoplabs/arshop-backend/pkg/logger"
)

// AdminDashboard returns the entity counts for the admin landing view.
func AdminDashboard(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		dashboard, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dashboard)
	}
}

// AdminListProducts returns the full catalog, inactive products included.
func AdminListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.AdminList(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}
