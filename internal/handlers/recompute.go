package handlers

import (
	"net/http"

	applog "foodprint/internal/log"
	"foodprint/models"
)

// recomputeConcurrency caps in-flight donation computations during a
// batch run. Donations are independent, so the limit only bounds load.
const recomputeConcurrency = 4

type recomputeFailure struct {
	DonationID uint   `json:"donation_id"`
	Error      string `json:"error"`
}

type recomputeResponse struct {
	Namespace string             `json:"namespace"`
	Total     int                `json:"total"`
	Computed  int                `json:"computed"`
	Failed    []recomputeFailure `json:"failed,omitempty"`
}

// RecomputeFootprints runs the engine over every stored donation and
// refreshes the result cache. Individual failures are reported, not
// fatal.
func RecomputeFootprints(w http.ResponseWriter, r *http.Request) {
	if database == nil || engine == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	namespace := requestNamespace(r)

	var ids []uint
	if err := database.WithContext(ctx).
		Model(&models.Donation{}).
		Order("id asc").
		Pluck("id", &ids).Error; err != nil {
		applog.Error(ctx, "failed to list donation ids", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load donations")
		return
	}

	outcomes := engine.ComputeAll(ctx, ids, namespace, recomputeConcurrency)

	resp := recomputeResponse{Namespace: namespace, Total: len(outcomes)}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			applog.Warn(ctx, "donation recomputation failed", "error", outcome.Err, "donationID", outcome.DonationID)
			resp.Failed = append(resp.Failed, recomputeFailure{
				DonationID: outcome.DonationID,
				Error:      outcome.Err.Error(),
			})
			continue
		}
		resp.Computed++
	}

	applog.Info(ctx, "batch recomputation finished",
		"namespace", namespace,
		"total", resp.Total,
		"computed", resp.Computed,
		"failed", len(resp.Failed),
	)
	writeJSON(w, http.StatusOK, resp)
}
