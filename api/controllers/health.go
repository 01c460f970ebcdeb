package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/laundryline/laundryline-backend/api/responses"
	"github.com/laundryline/laundryline-backend/pkg/config"
	"github.com/laundryline/laundryline-backend/pkg/db"
	pkgerrors "github.com/laundryline/laundryline-backend/pkg/errors"
	"github.com/laundryline/laundryline-backend/pkg/logger"
	"github.com/laundryline/laundryline-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-LaundryLine-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing dependency answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-LaundryLine-Env", cfg.App.Env)

		var err error
		checks := map[string]string{}

		if dbP != nil {
			if pingErr := dbP.Ping(r.Context()); pingErr != nil {
				err = multierr.Append(err, pingErr)
				checks["database"] = "down"
			} else {
				checks["database"] = "up"
			}
		}
		if redisP != nil {
			if pingErr := redisP.Ping(r.Context()); pingErr != nil {
				err = multierr.Append(err, pingErr)
				checks["redis"] = "down"
			} else {
				checks["redis"] = "up"
			}
		}

		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check failed").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
