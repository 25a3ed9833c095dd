// Package jobs holds the scheduled maintenance tasks. Each job is a plain
// function so it can run from a standalone binary (cron/systemd timer) or
// an in-process ticker.
package jobs

import (
	"context"
	"time"

	"fitpoint/gym-app/internal/service"

	"github.com/rs/zerolog"
)

// ExpirySweep deactivates memberships past their end date. Intended to run
// once a day shortly after business-local midnight.
func ExpirySweep(ctx context.Context, memberships service.MembershipService, log zerolog.Logger) error {
	started := time.Now()
	swept, err := memberships.SweepExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("membership expiry sweep failed")
		return err
	}
	log.Info().
		Int64("expired", swept).
		Dur("took", time.Since(started)).
		Msg("membership expiry sweep completed")
	return nil
}
