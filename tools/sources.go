package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/usarops/readiness"
)

// Sources returns readiness source implementations backed by the
// catalogue. Each summary is derived from the same accountability
// counts the report operations expose.
func (c *Catalog) Sources() readiness.Sources {
	return readiness.Sources{
		Personnel: readiness.SourceFunc(c.personnelSummary),
		Equipment: readiness.SourceFunc(c.equipmentSummary),
		Mission:   readiness.SourceFunc(c.missionSummary),
	}
}

func (c *Catalog) personnelSummary(ctx context.Context, taskForceID string) (readiness.SubsystemSummary, error) {
	if err := ctx.Err(); err != nil {
		return readiness.SubsystemSummary{}, err
	}

	summary := readiness.SubsystemSummary{
		Subsystem: readiness.SubsystemPersonnel,
		Available: true,
		AsOf:      time.Now(),
	}

	assigned, ready := 0, 0
	for _, g := range c.groups {
		assigned += g.Assigned
		ready += g.Ready
		if missing := g.Assigned - g.Ready; missing > 0 {
			summary.CriticalGaps = append(summary.CriticalGaps, readiness.Gap{
				Description: fmt.Sprintf("%s: %d of %d positions not ready", g.Name, missing, g.Assigned),
				Severity:    missing,
			})
		}
	}
	if assigned > 0 {
		summary.CompletenessPct = 100 * float64(ready) / float64(assigned)
	}
	return summary, nil
}

func (c *Catalog) equipmentSummary(ctx context.Context, taskForceID string) (readiness.SubsystemSummary, error) {
	if err := ctx.Err(); err != nil {
		return readiness.SubsystemSummary{}, err
	}

	summary := readiness.SubsystemSummary{
		Subsystem: readiness.SubsystemEquipment,
		Available: true,
		AsOf:      time.Now(),
	}

	operational, total := 0, 0
	for _, cat := range c.equipment {
		operational += cat.Operational
		total += cat.Total
		if down := cat.Total - cat.Operational; down > 0 {
			summary.CriticalGaps = append(summary.CriticalGaps, readiness.Gap{
				Description: fmt.Sprintf("%s equipment: %d items non-operational", cat.Name, down),
				Severity:    down,
			})
		}
	}
	if total > 0 {
		summary.CompletenessPct = 100 * float64(operational) / float64(total)
	}
	return summary, nil
}

// Mission readiness discounts the completeness for workload already on
// the board: an assignment awaiting activation weighs heavier than a
// mission underway.
func (c *Catalog) missionSummary(ctx context.Context, taskForceID string) (readiness.SubsystemSummary, error) {
	if err := ctx.Err(); err != nil {
		return readiness.SubsystemSummary{}, err
	}

	summary := readiness.SubsystemSummary{
		Subsystem:       readiness.SubsystemMission,
		CompletenessPct: 100,
		Available:       true,
		AsOf:            time.Now(),
	}

	for _, m := range c.missions {
		if m.TaskForceID != taskForceID {
			continue
		}
		switch m.Status {
		case "assigned":
			summary.CompletenessPct -= 15
			summary.CriticalGaps = append(summary.CriticalGaps, readiness.Gap{
				Description: fmt.Sprintf("mission %s awaiting activation", m.ID),
				Severity:    priorityWeight(m.Priority),
			})
		case "active":
			summary.CompletenessPct -= 5
		}
	}
	if summary.CompletenessPct < 0 {
		summary.CompletenessPct = 0
	}
	return summary, nil
}

func priorityWeight(priority string) int {
	switch priority {
	case "high":
		return 3
	case "medium":
		return 2
	default:
		return 1
	}
}
