package tools

import (
	"errors"
	"time"
)

// FEMA USAR Type 1 task force constants.
const (
	TotalPersonnelPositions = 70
	TotalEquipmentItems     = 16400
	DeploymentTargetHours   = 6
	SelfSufficiencyHours    = 96
	TotalNationalTaskForces = 28
)

// ErrUnknownFilter signals a filter value not present in the catalogue.
var ErrUnknownFilter = errors.New("tools: unknown filter")

// FunctionalGroup is one of the seven USAR functional groups with its
// position titles and current accountability counts.
type FunctionalGroup struct {
	Name      string   `json:"name"`
	Positions []string `json:"positions"`
	Assigned  int      `json:"assigned"`
	Ready     int      `json:"ready"`
}

// EquipmentCategory is one slice of the 16,400-item equipment cache.
type EquipmentCategory struct {
	Name        string `json:"name"`
	Operational int    `json:"operational"`
	Total       int    `json:"total"`
}

// Mission is one entry on a task force's mission board.
type Mission struct {
	ID          string    `json:"id"`
	TaskForceID string    `json:"task_force_id"`
	Type        string    `json:"type"`
	Status      string    `json:"status"` // assigned|active|completed|cancelled
	Priority    string    `json:"priority"`
	AssignedAt  time.Time `json:"assigned_at"`
}

// ICSForm is a catalogue entry for an ICS form the planning section
// produces.
type ICSForm struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Purpose string `json:"purpose"`
}

// Catalog bundles the static operating picture. Construct with
// NewCatalog; the data is immutable afterwards.
type Catalog struct {
	groups    []FunctionalGroup
	equipment []EquipmentCategory
	forms     []ICSForm
	missions  []Mission
}

// NewCatalog returns a catalogue seeded with the standard Type 1 task
// force configuration.
func NewCatalog() *Catalog {
	return &Catalog{
		groups: []FunctionalGroup{
			{Name: "COMMAND", Positions: []string{"Task Force Leader", "Safety Officer"}, Assigned: 2, Ready: 2},
			{Name: "SEARCH", Positions: []string{"Search Team Manager", "Technical Search Specialist", "Canine Handler"}, Assigned: 12, Ready: 11},
			{Name: "RESCUE", Positions: []string{"Rescue Team Manager", "Rescue Squad Leader", "Rescue Specialist", "Heavy Equipment Operator"}, Assigned: 25, Ready: 24},
			{Name: "MEDICAL", Positions: []string{"Medical Team Manager", "Task Force Physician", "Medical Specialist"}, Assigned: 6, Ready: 6},
			{Name: "PLANNING", Positions: []string{"Planning Section Chief", "SITL", "RESL", "Documentation Unit Leader", "Demobilization Unit Leader"}, Assigned: 10, Ready: 10},
			{Name: "LOGISTICS", Positions: []string{"Logistics Section Chief", "Supply Unit Leader", "Facilities Unit Leader", "Ground Support Unit Leader"}, Assigned: 12, Ready: 12},
			{Name: "TECHNICAL", Positions: []string{"Structures Specialist", "Hazmat Specialist", "Heavy Equipment/Rigging Specialist", "Communications Specialist"}, Assigned: 3, Ready: 3},
		},
		equipment: []EquipmentCategory{
			{Name: "search", Operational: 245, Total: 250},
			{Name: "rescue", Operational: 1890, Total: 1920},
			{Name: "medical", Operational: 380, Total: 385},
			{Name: "communications", Operational: 95, Total: 98},
			{Name: "logistics", Operational: 13640, Total: 13747},
		},
		forms: []ICSForm{
			{ID: "ICS-201", Title: "Incident Briefing", Purpose: "Initial situation summary and command structure"},
			{ID: "ICS-202", Title: "Incident Objectives", Purpose: "Operational period objectives and priorities"},
			{ID: "ICS-204", Title: "Assignment List", Purpose: "Work assignments per division or group"},
			{ID: "ICS-205", Title: "Incident Radio Communications Plan", Purpose: "Frequency and channel assignments"},
			{ID: "ICS-206", Title: "Medical Plan", Purpose: "Medical aid stations and transport routes"},
			{ID: "ICS-214", Title: "Activity Log", Purpose: "Chronological unit activity record"},
			{ID: "ICS-215", Title: "Operational Planning Worksheet", Purpose: "Resource requirements per work assignment"},
		},
		missions: []Mission{
			{ID: "M-2024-0117", TaskForceID: "CA-TF1", Type: "structural_collapse", Status: "active", Priority: "high", AssignedAt: time.Date(2024, 1, 17, 6, 30, 0, 0, time.UTC)},
			{ID: "M-2024-0118", TaskForceID: "CA-TF1", Type: "search_and_rescue", Status: "assigned", Priority: "medium", AssignedAt: time.Date(2024, 1, 18, 14, 0, 0, 0, time.UTC)},
			{ID: "M-2024-0092", TaskForceID: "VA-TF1", Type: "disaster_response", Status: "completed", Priority: "high", AssignedAt: time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)},
		},
	}
}
