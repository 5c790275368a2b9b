package out

import (
	"context"

	"chalkup/internal/modules/session/domain"
)

type NoopMetrics struct{}

func (NoopMetrics) ClimbLogged(context.Context, domain.Session, domain.ClimbLog) {}

func (NoopMetrics) SessionFinished(context.Context, domain.Session) {}

func (NoopMetrics) Close(context.Context) error {
	return nil
}
