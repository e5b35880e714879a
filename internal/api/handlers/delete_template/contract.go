package delete_template

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

type TemplateService interface {
	Delete(ctx context.Context, kind domain.EntityKind, entityID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
