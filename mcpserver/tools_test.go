package mcpserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonwraymond/usarops/core"
	"github.com/jonwraymond/usarops/health"
	"github.com/jonwraymond/usarops/observe"
	"github.com/jonwraymond/usarops/readiness"
	"github.com/jonwraymond/usarops/tools"
)

func newTestBackend(t *testing.T) (*core.Core, *tools.Catalog) {
	t.Helper()
	catalog := tools.NewCatalog()
	c, err := core.New(catalog.Sources())
	if err != nil {
		t.Fatalf("core.New: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		c.Close(ctx)
	})
	return c, catalog
}

func TestGetReadinessHandler(t *testing.T) {
	c, _ := newTestBackend(t)
	handler := GetReadinessHandler(c)

	_, result, err := handler(context.Background(), nil, GetReadinessInput{TaskForceID: "CA-TF1"})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	if result.TaskForceID != "CA-TF1" {
		t.Errorf("TaskForceID = %q, want CA-TF1", result.TaskForceID)
	}
	// Personnel 97.1, equipment 99.1, mission 80: composite ~94.5.
	if result.Status != "READY" {
		t.Errorf("Status = %q, want READY", result.Status)
	}
	if result.CompositeScore == nil {
		t.Fatal("CompositeScore must be set")
	}
	if result.Version != 1 {
		t.Errorf("Version = %d, want 1", result.Version)
	}
	if len(result.Bottlenecks) == 0 {
		t.Error("expected bottlenecks from the seeded catalogue")
	}
	if _, err := time.Parse(time.RFC3339Nano, result.ComputedAt); err != nil {
		t.Errorf("ComputedAt %q is not RFC 3339: %v", result.ComputedAt, err)
	}
}

func TestGetReadinessHandler_IncludeFlagsDefaultTrue(t *testing.T) {
	c, _ := newTestBackend(t)
	handler := GetReadinessHandler(c)

	f := false
	_, result, err := handler(context.Background(), nil, GetReadinessInput{
		TaskForceID:      "VA-TF2",
		IncludeEquipment: &f,
		IncludeMissions:  &f,
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	// Personnel only: 68/70 ready renormalizes to the full score.
	want := 100 * 68.0 / 70.0
	if result.CompositeScore == nil || *result.CompositeScore != want {
		t.Errorf("CompositeScore = %v, want %v", result.CompositeScore, want)
	}
}

func TestGetReadinessHandler_RejectsBadID(t *testing.T) {
	c, _ := newTestBackend(t)
	handler := GetReadinessHandler(c)

	_, _, err := handler(context.Background(), nil, GetReadinessInput{TaskForceID: "bogus"})
	if !errors.Is(err, core.ErrInvalidTaskForceID) {
		t.Errorf("error = %v, want ErrInvalidTaskForceID", err)
	}
}

func TestInvalidateHandler(t *testing.T) {
	c, _ := newTestBackend(t)

	if _, _, err := GetReadinessHandler(c)(context.Background(), nil, GetReadinessInput{TaskForceID: "CA-TF1"}); err != nil {
		t.Fatalf("seed readiness: %v", err)
	}

	_, result, err := InvalidateHandler(c)(context.Background(), nil, InvalidateInput{TaskForceID: "CA-TF1"})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if result.Removed != 1 {
		t.Errorf("Removed = %d, want 1", result.Removed)
	}
}

func TestCatalogHandlers(t *testing.T) {
	c, catalog := newTestBackend(t)
	ctx := context.Background()

	_, roster, err := RosterHandler(catalog)(ctx, nil, RosterInput{Group: "medical"})
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(roster.Groups) != 1 || roster.Groups[0].Name != "MEDICAL" {
		t.Errorf("roster groups = %+v, want MEDICAL only", roster.Groups)
	}

	_, equipment, err := EquipmentHandler(catalog)(ctx, nil, EquipmentInput{})
	if err != nil {
		t.Fatalf("equipment: %v", err)
	}
	if equipment.TotalItems != tools.TotalEquipmentItems {
		t.Errorf("TotalItems = %d, want %d", equipment.TotalItems, tools.TotalEquipmentItems)
	}

	_, board, err := MissionBoardHandler(catalog)(ctx, nil, MissionBoardInput{TaskForceID: "CA-TF1", Status: "active"})
	if err != nil {
		t.Fatalf("missions: %v", err)
	}
	if len(board.Missions) != 1 {
		t.Errorf("missions = %+v, want one active", board.Missions)
	}

	_, forms, err := FormsHandler(catalog)(ctx, nil, FormsInput{})
	if err != nil {
		t.Fatalf("forms: %v", err)
	}
	if len(forms.Forms) != 7 {
		t.Errorf("forms = %d, want 7", len(forms.Forms))
	}

	_, caps, err := CapabilitiesHandler(catalog)(ctx, nil, CapabilitiesInput{})
	if err != nil {
		t.Fatalf("capabilities: %v", err)
	}
	if caps.TotalPositions != tools.TotalPersonnelPositions {
		t.Errorf("TotalPositions = %d", caps.TotalPositions)
	}

	_, status, err := SystemStatusHandler(c)(ctx, nil, SystemStatusInput{})
	if err != nil {
		t.Fatalf("system status: %v", err)
	}
	if status.Cache.Capacity == 0 {
		t.Error("cache capacity must report its default")
	}
}

func TestServiceHealthHandler(t *testing.T) {
	_, catalog := newTestBackend(t)
	sources := catalog.Sources()

	checks := health.NewAggregator()
	checks.Register(health.NewSourceChecker("personnel", "CA-TF1", sources.Personnel))
	checks.Register(health.NewSourceChecker("equipment", "CA-TF1", sources.Equipment))
	checks.Register(health.NewSourceChecker("mission", "CA-TF1", sources.Mission))
	checks.Register(health.NewSourceChecker("broken", "CA-TF1", readiness.SourceFunc(
		func(ctx context.Context, id string) (readiness.SubsystemSummary, error) {
			return readiness.SubsystemSummary{}, errors.New("connection refused")
		})))

	_, result, err := ServiceHealthHandler(checks)(context.Background(), nil, ServiceHealthInput{})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if result.Status != "unhealthy" {
		t.Errorf("Status = %q, want unhealthy (worst probe wins)", result.Status)
	}
	if len(result.Checks) != 4 {
		t.Fatalf("checks = %d, want 4", len(result.Checks))
	}
	// Sorted by name: broken, equipment, mission, personnel.
	if result.Checks[0].Name != "broken" || result.Checks[0].Error == "" {
		t.Errorf("first check = %+v, want failing broken probe", result.Checks[0])
	}
	if result.Checks[3].Name != "personnel" || result.Checks[3].Status != "healthy" {
		t.Errorf("last check = %+v, want healthy personnel probe", result.Checks[3])
	}
}

func TestNewRegistersAllTools(t *testing.T) {
	c, catalog := newTestBackend(t)

	s := New(c, catalog, health.NewAggregator(), observe.NewNoop().Logger())
	if s == nil || s.mcpServer == nil {
		t.Fatal("New must return a wired server")
	}
}
