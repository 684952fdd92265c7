package guard

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/vendia/internal/domain"
)

// ModerationGuard runs user input through the external moderation collaborator
// before anything else touches it.
//
// When the collaborator is absent or fails, the guard defaults to permissive
// (availability over strictness). Deployments that prefer to reject on
// classifier outage can set failClosed.
type ModerationGuard struct {
	moderator  domain.Moderator
	failClosed bool
}

func NewModerationGuard(moderator domain.Moderator, failClosed bool) *ModerationGuard {
	return &ModerationGuard{moderator: moderator, failClosed: failClosed}
}

// Check classifies text and blocks flagged content with ReasonModeration.
func (g *ModerationGuard) Check(ctx context.Context, text string) Result {
	if g.moderator == nil {
		if g.failClosed {
			return Block(ReasonModeration)
		}
		return Allow()
	}

	flagged, err := g.moderator.Check(ctx, text)
	if err != nil {
		log.Warn().Err(err).Bool("fail_closed", g.failClosed).Msg("guard.ModerationGuard.Check: moderator unavailable")
		if g.failClosed {
			return Block(ReasonModeration)
		}
		return Allow()
	}

	if flagged {
		return Block(ReasonModeration)
	}
	return Allow()
}
