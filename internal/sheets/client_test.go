package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"realty_site_backend/platform/logger"
)

type sheetsTestConfig struct {
	url string
}

func (c sheetsTestConfig) GetSheetsWebhookURL() string { return c.url }
func (c sheetsTestConfig) IsSheetsSyncEnabled() bool   { return c.url != "" }

func sampleRow() LeadRow {
	return LeadRow{
		ID:                   "6a1f0e9c-0000-0000-0000-000000000001",
		Name:                 "Asha Patel",
		Email:                "asha@example.com",
		Phone:                "+91 98765 43210",
		PreferredContactTime: "morning",
		Interest:             "ongoing_project",
		HeardFrom:            "",
		Message:              "",
		Status:               "new",
		SubmittedAt:          time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestSyncLead_PostsFlatPayload(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(sheetsTestConfig{url: srv.URL}, logger.New("development"))

	if err := client.SyncLead(context.Background(), sampleRow()); err != nil {
		t.Fatalf("SyncLead() error = %v", err)
	}

	wantKeys := []string{"id", "name", "email", "phone", "preferred_contact_time", "interest", "heard_from", "message", "status", "submitted_at"}
	for _, key := range wantKeys {
		if _, ok := got[key]; !ok {
			t.Errorf("payload missing key %q", key)
		}
	}
	if got["heard_from"] != "" {
		t.Errorf("heard_from = %v, want empty string not null", got["heard_from"])
	}
}

func TestSyncLead_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(sheetsTestConfig{url: srv.URL}, logger.New("development"))

	if err := client.SyncLead(context.Background(), sampleRow()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestSyncLead_DisabledClientIsNoop(t *testing.T) {
	client := NewClient(sheetsTestConfig{url: ""}, logger.New("development"))

	if client.Enabled() {
		t.Error("client should be disabled without a webhook URL")
	}
	if err := client.SyncLead(context.Background(), sampleRow()); err != nil {
		t.Fatalf("SyncLead() on disabled client should be a no-op, got %v", err)
	}
}
