package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/types"
	"github.com/risklens-dev/risklens/pkg/service/ingest"
	"github.com/risklens-dev/risklens/pkg/usecase"
	"github.com/risklens-dev/risklens/pkg/utils/errutil"
	"github.com/risklens-dev/risklens/pkg/utils/safe"
)

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, []byte(`{"status":"ok"}`))
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

// latestRegisterHandler serves the most recent risk register as JSON
func latestRegisterHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg, err := uc.Repo().Register().GetLatest(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to load latest register"), http.StatusInternalServerError)
			return
		}
		if reg == nil {
			http.Error(w, "no register available yet", http.StatusNotFound)
			return
		}

		respondJSON(w, r, http.StatusOK, reg)
	}
}

// forecastHandler projects the risk trend. Query params: horizon, window.
func forecastHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		horizon, err := queryInt(r, "horizon", 3)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		window, err := queryInt(r, "window", 0)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		proj, err := uc.Forecast.Execute(r.Context(), horizon, window)
		if errors.Is(err, types.ErrInsufficientHistory) {
			http.Error(w, "not enough snapshot history to forecast", http.StatusConflict)
			return
		}
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "forecast failed"), http.StatusInternalServerError)
			return
		}

		respondJSON(w, r, http.StatusOK, proj)
	}
}

// findingsHandler ingests a findings document and runs an assessment.
// Query param archive=true additionally stores a forecast snapshot.
func findingsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		findings, err := ingest.Read(r.Body)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		archive := r.URL.Query().Get("archive") == "true"

		reg, err := uc.Assess.Execute(r.Context(), usecase.AssessInput{
			Findings: findings,
			Archive:  archive,
		})
		if errors.Is(err, types.ErrConfig) || errors.Is(err, types.ErrPolicyViolation) {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnprocessableEntity)
			return
		}
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "assessment failed"), http.StatusInternalServerError)
			return
		}

		respondJSON(w, r, http.StatusCreated, reg)
	}
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, goerr.New("invalid query parameter", goerr.V("name", name), goerr.V("value", raw))
	}
	return v, nil
}
