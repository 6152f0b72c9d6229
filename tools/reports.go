package tools

import (
	"fmt"
	"strings"
)

// RosterReport is the personnel accountability picture, optionally
// filtered to one functional group.
type RosterReport struct {
	Groups        []FunctionalGroup `json:"groups"`
	TotalAssigned int               `json:"total_assigned"`
	TotalReady    int               `json:"total_ready"`
	ReadyPct      float64           `json:"ready_pct"`
}

// Roster returns the personnel roster. An empty group returns every
// functional group; otherwise the name is matched case-insensitively.
func (c *Catalog) Roster(group string) (RosterReport, error) {
	var report RosterReport
	for _, g := range c.groups {
		if group != "" && !strings.EqualFold(g.Name, group) {
			continue
		}
		report.Groups = append(report.Groups, g)
		report.TotalAssigned += g.Assigned
		report.TotalReady += g.Ready
	}
	if len(report.Groups) == 0 {
		return RosterReport{}, fmt.Errorf("%w: functional group %q", ErrUnknownFilter, group)
	}
	if report.TotalAssigned > 0 {
		report.ReadyPct = 100 * float64(report.TotalReady) / float64(report.TotalAssigned)
	}
	return report, nil
}

// EquipmentReport is the equipment cache picture, optionally filtered to
// one category.
type EquipmentReport struct {
	Categories       []EquipmentCategory `json:"categories"`
	TotalOperational int                 `json:"total_operational"`
	TotalItems       int                 `json:"total_items"`
	OperationalPct   float64             `json:"operational_pct"`
}

// Equipment returns the equipment cache accountability. An empty
// category returns every category.
func (c *Catalog) Equipment(category string) (EquipmentReport, error) {
	var report EquipmentReport
	for _, cat := range c.equipment {
		if category != "" && !strings.EqualFold(cat.Name, category) {
			continue
		}
		report.Categories = append(report.Categories, cat)
		report.TotalOperational += cat.Operational
		report.TotalItems += cat.Total
	}
	if len(report.Categories) == 0 {
		return EquipmentReport{}, fmt.Errorf("%w: equipment category %q", ErrUnknownFilter, category)
	}
	if report.TotalItems > 0 {
		report.OperationalPct = 100 * float64(report.TotalOperational) / float64(report.TotalItems)
	}
	return report, nil
}

var missionStatuses = map[string]bool{
	"assigned":  true,
	"active":    true,
	"completed": true,
	"cancelled": true,
}

// Missions returns the mission board for a task force, optionally
// filtered by status. The returned slice is never nil.
func (c *Catalog) Missions(taskForceID, status string) ([]Mission, error) {
	if status != "" && !missionStatuses[status] {
		return nil, fmt.Errorf("%w: mission status %q", ErrUnknownFilter, status)
	}

	board := []Mission{}
	for _, m := range c.missions {
		if m.TaskForceID != taskForceID {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		board = append(board, m)
	}
	return board, nil
}

// Forms returns the ICS form catalogue.
func (c *Catalog) Forms() []ICSForm {
	forms := make([]ICSForm, len(c.forms))
	copy(forms, c.forms)
	return forms
}

// Capabilities summarizes what a Type 1 task force brings to an
// incident.
type Capabilities struct {
	FunctionalGroups    []string `json:"functional_groups"`
	TotalPositions      int      `json:"total_positions"`
	TotalEquipmentItems int      `json:"total_equipment_items"`
	DeploymentTargetHrs int      `json:"deployment_target_hours"`
	SelfSufficiencyHrs  int      `json:"self_sufficiency_hours"`
	NationalTaskForces  int      `json:"national_task_forces"`
	ICSFormsSupported   []string `json:"ics_forms_supported"`
}

// Capabilities returns the task force capability summary.
func (c *Catalog) Capabilities() Capabilities {
	caps := Capabilities{
		TotalPositions:      TotalPersonnelPositions,
		TotalEquipmentItems: TotalEquipmentItems,
		DeploymentTargetHrs: DeploymentTargetHours,
		SelfSufficiencyHrs:  SelfSufficiencyHours,
		NationalTaskForces:  TotalNationalTaskForces,
	}
	for _, g := range c.groups {
		caps.FunctionalGroups = append(caps.FunctionalGroups, g.Name)
	}
	for _, f := range c.forms {
		caps.ICSFormsSupported = append(caps.ICSFormsSupported, f.ID)
	}
	return caps
}
