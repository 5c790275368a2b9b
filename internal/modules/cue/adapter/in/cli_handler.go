package in

import (
	"context"

	cuedto "chalkup/internal/modules/cue/dto"
	cuein "chalkup/internal/modules/cue/port/in"
)

type CLIHandler struct {
	usecase cuein.Usecase
}

func NewCLIHandler(usecase cuein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Test(ctx context.Context, cueType string) error {
	return h.usecase.Test(ctx, cuedto.EmitInput{Type: cueType, Wait: true})
}

func (h CLIHandler) Unlock(ctx context.Context) cuedto.StatusOutput {
	return h.usecase.Unlock(ctx)
}

func (h CLIHandler) Status(ctx context.Context) cuedto.StatusOutput {
	return h.usecase.Status(ctx)
}
