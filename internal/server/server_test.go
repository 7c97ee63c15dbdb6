package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"gorm.io/gorm"

	"foodprint/internal/db/mock"
	"foodprint/models"
)

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	database, err := mock.New(context.Background())
	if err != nil {
		t.Fatalf("failed to build mock database: %v", err)
	}
	srv := New(Config{
		Addr:      "127.0.0.1:0",
		Namespace: mock.Namespace,
		Database:  database,
	})
	return srv, database
}

func TestServerRoutes(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 from /healthz, got %d", resp.StatusCode)
	}

	listResp, err := http.Get(ts.URL + "/api/donations")
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	defer listResp.Body.Close()
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 from donation list, got %d", listResp.StatusCode)
	}
	var donations []json.RawMessage
	if err := json.NewDecoder(listResp.Body).Decode(&donations); err != nil {
		t.Fatalf("failed to decode donation list: %v", err)
	}
	if len(donations) == 0 {
		t.Fatal("expected seeded donations from the mock database")
	}
}

func TestServerComputesSeededDonation(t *testing.T) {
	srv, database := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	var donation models.Donation
	if err := database.Where("dish_id IS NOT NULL").First(&donation).Error; err != nil {
		t.Fatalf("failed to load seeded donation: %v", err)
	}

	url := ts.URL + "/api/donations/" + strconv.FormatUint(uint64(donation.ID), 10) + "/footprint"
	resp, err := http.Post(url, "application/json", nil)
	if err != nil {
		t.Fatalf("footprint request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 from footprint computation, got %d", resp.StatusCode)
	}

	var result struct {
		DonatedKg   float64 `json:"donated_kg"`
		MappedKg    float64 `json:"mapped_kg"`
		UnmappedKg  float64 `json:"unmapped_kg"`
		IgnoredKg   float64 `json:"ignored_kg"`
		TotalCO2eKg float64 `json:"total_co2e_kg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode footprint result: %v", err)
	}
	if result.DonatedKg != donation.WeightKg {
		t.Fatalf("expected donated mass %f, got %f", donation.WeightKg, result.DonatedKg)
	}
	total := result.MappedKg + result.UnmappedKg + result.IgnoredKg
	if diff := total - result.DonatedKg; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("mass classes %f do not add up to donated %f", total, result.DonatedKg)
	}
	if result.TotalCO2eKg <= 0 {
		t.Fatalf("expected a positive footprint, got %f", result.TotalCO2eKg)
	}
}

func TestServerWithoutDatabaseDegrades(t *testing.T) {
	srv := New(Config{Addr: "127.0.0.1:0", Namespace: "default"})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/api/donations")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503 without a database, got %d", resp.StatusCode)
	}

	healthResp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer healthResp.Body.Close()
	if healthResp.StatusCode != http.StatusOK {
		t.Fatalf("expected /healthz to stay available, got %d", healthResp.StatusCode)
	}
}
