package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"foodprint/internal/footprint"
	applog "foodprint/internal/log"
	"foodprint/models"
)

type donationRequest struct {
	WeightKg    float64 `json:"weight_kg"`
	DishID      *uint   `json:"dish_id"`
	ComponentID *uint   `json:"component_id"`
}

type donationResultSummary struct {
	Namespace      string    `json:"namespace"`
	TotalCO2eKg    float64   `json:"total_co2e_kg"`
	TotalMassKg    float64   `json:"total_mass_kg"`
	UnmappedMassKg float64   `json:"unmapped_mass_kg"`
	ComputedAt     time.Time `json:"computed_at"`
}

type donationResponse struct {
	ID          uint                   `json:"id"`
	WeightKg    float64                `json:"weight_kg"`
	DishID      *uint                  `json:"dish_id,omitempty"`
	ComponentID *uint                  `json:"component_id,omitempty"`
	Result      *donationResultSummary `json:"result,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// DonationResource routes donation reads, creation and footprint
// computation.
func DonationResource(w http.ResponseWriter, r *http.Request) {
	if database == nil || engine == nil {
		applog.Debug(r.Context(), "donation request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/donations")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listDonations(w, r)
		case http.MethodPost:
			createDonation(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	idPart, rest, _ := strings.Cut(path, "/")
	idValue, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid donation identifier", "identifier", idPart, "error", err)
		http.NotFound(w, r)
		return
	}
	donationID := uint(idValue)

	switch rest {
	case "":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		showDonation(w, r, donationID)
	case "footprint":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		computeDonationFootprint(w, r, donationID)
	default:
		http.NotFound(w, r)
	}
}

func listDonations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var donations []models.Donation

	if err := database.WithContext(ctx).
		Preload("Result").
		Order("id asc").
		Find(&donations).Error; err != nil {
		applog.Error(ctx, "failed to list donations", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load donations")
		return
	}

	responses := make([]donationResponse, 0, len(donations))
	for _, donation := range donations {
		responses = append(responses, projectDonation(donation))
	}

	writeJSON(w, http.StatusOK, responses)
}

func showDonation(w http.ResponseWriter, r *http.Request, donationID uint) {
	ctx := r.Context()
	var donation models.Donation
	if err := database.WithContext(ctx).
		Preload("Result").
		First(&donation, donationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load donation", "error", err, "id", donationID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load donation")
		return
	}

	writeJSON(w, http.StatusOK, projectDonation(donation))
}

func createDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload donationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid donation create payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if payload.WeightKg <= 0 {
		writeJSONError(w, http.StatusBadRequest, "weight_kg must be positive")
		return
	}
	if (payload.DishID == nil) == (payload.ComponentID == nil) {
		writeJSONError(w, http.StatusBadRequest, "exactly one of dish_id and component_id must be set")
		return
	}

	donation := models.Donation{
		WeightKg:    payload.WeightKg,
		DishID:      payload.DishID,
		ComponentID: payload.ComponentID,
	}

	if err := database.WithContext(ctx).Create(&donation).Error; err != nil {
		applog.Error(ctx, "failed to create donation", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create donation")
		return
	}

	writeJSON(w, http.StatusCreated, projectDonation(donation))
}

func computeDonationFootprint(w http.ResponseWriter, r *http.Request, donationID uint) {
	ctx := r.Context()
	trace := false
	if v := strings.TrimSpace(r.URL.Query().Get("trace")); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "trace must be a boolean")
			return
		}
		trace = parsed
	}

	req := footprint.Request{
		DonationID: donationID,
		Namespace:  requestNamespace(r),
		Trace:      trace,
	}

	result, err := engine.Compute(ctx, req)
	if err != nil {
		var integrity *footprint.IntegrityError
		switch {
		case errors.Is(err, footprint.ErrDonationNotFound):
			http.NotFound(w, r)
		case errors.As(err, &integrity):
			applog.Warn(ctx, "donation failed integrity checks", "error", err, "donationID", donationID)
			writeJSONError(w, http.StatusUnprocessableEntity, integrity.Error())
		default:
			applog.Error(ctx, "failed to compute donation footprint", "error", err, "donationID", donationID)
			writeJSONError(w, http.StatusInternalServerError, "unable to compute donation footprint")
		}
		return
	}

	applog.Info(ctx, "donation footprint computed",
		"donationID", donationID,
		"namespace", req.Namespace,
		"co2eKg", result.TotalCO2eKg,
		"unmappedKg", result.UnmappedKg,
	)
	writeJSON(w, http.StatusOK, result)
}

func projectDonation(donation models.Donation) donationResponse {
	response := donationResponse{
		ID:          donation.ID,
		WeightKg:    donation.WeightKg,
		DishID:      donation.DishID,
		ComponentID: donation.ComponentID,
		CreatedAt:   donation.CreatedAt,
		UpdatedAt:   donation.UpdatedAt,
	}
	if donation.Result != nil {
		response.Result = &donationResultSummary{
			Namespace:      donation.Result.Namespace,
			TotalCO2eKg:    donation.Result.TotalCO2eKg,
			TotalMassKg:    donation.Result.TotalMassKg,
			UnmappedMassKg: donation.Result.UnmappedMassKg,
			ComputedAt:     donation.Result.ComputedAt,
		}
	}
	return response
}
