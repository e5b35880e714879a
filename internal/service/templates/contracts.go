package templates

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
)

// TemplateRepository интерфейс репозитория шаблонов посева
type TemplateRepository interface {
	Upsert(ctx context.Context, tpl *domain.Template) (*domain.Template, error)
	GetByEntity(ctx context.Context, entityID string, kind domain.EntityKind) (*domain.Template, error)
	ListActive(ctx context.Context) ([]*domain.Template, error)
	DeleteByEntity(ctx context.Context, entityID string, kind domain.EntityKind) error
}

// CatalogClient интерфейс клиента каталога сущностей
type CatalogClient interface {
	Exists(ctx context.Context, kind, entityID string) (bool, *catalogservice.Entity, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
