package commands

import (
	"time"

	domainerrors "verdict/contexts/judging/certification-service/domain/errors"
	"verdict/contexts/judging/certification-service/ports"
)

func resolveNow(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return domainerrors.KindName(err)
}
