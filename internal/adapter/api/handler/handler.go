package handler

import (
	"snaptext/internal/usecase"
)

type Handlers struct {
	Submission *SubmissionHandler
	Health     *HealthHandler
}

func New(submissionUseCase *usecase.SubmissionUseCase) *Handlers {
	return &Handlers{
		Submission: NewSubmissionHandler(submissionUseCase),
		Health:     NewHealthHandler(),
	}
}
