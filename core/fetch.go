package core

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/usarops/observe"
	"github.com/jonwraymond/usarops/readiness"
)

// summarizeFunc is the shared method shape of the three source interfaces.
type summarizeFunc func(ctx context.Context, taskForceID string) (readiness.SubsystemSummary, error)

func summarizer(src interface {
	Summarize(ctx context.Context, taskForceID string) (readiness.SubsystemSummary, error)
}) summarizeFunc {
	if src == nil {
		return nil
	}
	return src.Summarize
}

// fetchSummaries queries the included subsystem sources concurrently.
// A source failure never fails the fetch: the subsystem is reported as
// unavailable and the aggregation degrades. The only aborting condition
// is the context ending, which cancels the sibling fetches and surfaces
// as a task timeout upstream.
func (c *Core) fetchSummaries(ctx context.Context, taskForceID string, opts readiness.Options) (personnel, equipment, mission readiness.SubsystemSummary, err error) {
	g, gctx := errgroup.WithContext(ctx)

	fetch := func(sub readiness.Subsystem, summarize summarizeFunc, dst *readiness.SubsystemSummary) {
		g.Go(func() error {
			if summarize == nil {
				*dst = readiness.Unavailable(sub)
				return nil
			}
			s, serr := summarize(gctx, taskForceID)
			if serr != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.logger.Warn(gctx, "subsystem source unavailable",
					observe.Field{Key: "task_force_id", Value: taskForceID},
					observe.Field{Key: "subsystem", Value: sub.String()},
					observe.Field{Key: "error", Value: serr.Error()},
				)
				*dst = readiness.Unavailable(sub)
				return nil
			}
			*dst = s
			return nil
		})
	}

	if opts.IncludePersonnel {
		fetch(readiness.SubsystemPersonnel, summarizer(c.sources.Personnel), &personnel)
	}
	if opts.IncludeEquipment {
		fetch(readiness.SubsystemEquipment, summarizer(c.sources.Equipment), &equipment)
	}
	if opts.IncludeMissions {
		fetch(readiness.SubsystemMission, summarizer(c.sources.Mission), &mission)
	}

	if err := g.Wait(); err != nil {
		return readiness.SubsystemSummary{}, readiness.SubsystemSummary{}, readiness.SubsystemSummary{}, err
	}
	return personnel, equipment, mission, nil
}
