package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/cache"
	templateRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/template"
	catalogClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/templates/models"
)

// Service сервис шаблонов посева доступности
type Service struct {
	templateRepo  TemplateRepository
	catalogClient CatalogClient
	cache         *cache.Cache
	logger        Logger
}

// NewService создает новый экземпляр сервиса шаблонов; c == nil отключает кэширование
func NewService(
	templateRepo TemplateRepository,
	catalogClient CatalogClient,
	c *cache.Cache,
	logger Logger,
) *Service {
	return &Service{
		templateRepo:  templateRepo,
		catalogClient: catalogClient,
		cache:         c,
		logger:        logger,
	}
}

// Get возвращает шаблон сущности (через кэш)
func (s *Service) Get(ctx context.Context, kind domain.EntityKind, entityID string) (*models.TemplateResponse, error) {
	if !kind.IsValid() || entityID == "" {
		return nil, fmt.Errorf("%w: entity kind and id are required", ErrInvalidInput)
	}

	key := cache.TemplateKey(string(kind), entityID)
	tpl, err := cache.ReadThrough(ctx, s.cache, cache.FamilyTemplate, key,
		cache.Scope{Generations: []string{cache.GenerationKey(key)}},
		func(ctx context.Context) (*domain.Template, error) {
			return s.templateRepo.GetByEntity(ctx, entityID, kind)
		},
	)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("Get: repository error for %s/%s: %v", kind, entityID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTemplate(tpl), nil
}

// Upsert создает или полностью заменяет шаблон сущности.
// Сущность должна существовать в каталоге и быть активной.
func (s *Service) Upsert(ctx context.Context, req *models.UpsertTemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("Upsert: saving template for %s/%s (%d base slots)", req.EntityKind, req.EntityID, len(req.BaseSlots))

	// 1. Валидируем и конвертируем запрос
	tpl, err := req.ToDomainTemplate()
	if err != nil {
		s.logger.Warn("Upsert: validation failed for %s/%s: %v", req.EntityKind, req.EntityID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем сущность в каталоге
	if err := s.checkEntity(ctx, tpl.EntityKind, tpl.EntityID); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	saved, err := s.templateRepo.Upsert(ctx, tpl)
	if err != nil {
		s.logger.Error("Upsert: repository error for %s/%s: %v", tpl.EntityKind, tpl.EntityID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, saved.EntityKind, saved.EntityID)

	s.logger.Info("Upsert: template id=%d saved for %s/%s", saved.ID, saved.EntityKind, saved.EntityID)
	return models.FromDomainTemplate(saved), nil
}

// Delete удаляет шаблон сущности
func (s *Service) Delete(ctx context.Context, kind domain.EntityKind, entityID string) error {
	if !kind.IsValid() || entityID == "" {
		return fmt.Errorf("%w: entity kind and id are required", ErrInvalidInput)
	}

	if err := s.templateRepo.DeleteByEntity(ctx, entityID, kind); err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			s.logger.Warn("Delete: template for %s/%s not found", kind, entityID)
			return ErrTemplateNotFound
		}
		s.logger.Error("Delete: repository error for %s/%s: %v", kind, entityID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, kind, entityID)

	s.logger.Info("Delete: template for %s/%s deleted", kind, entityID)
	return nil
}

// ListActive все активные шаблоны (для сидера, без кэша)
func (s *Service) ListActive(ctx context.Context) ([]*domain.Template, error) {
	templates, err := s.templateRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("ListActive: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}
	return templates, nil
}

// Вспомогательные методы

// checkEntity проверяет, что сущность есть в каталоге и активна
func (s *Service) checkEntity(ctx context.Context, kind domain.EntityKind, entityID string) error {
	found, entity, err := s.catalogClient.Exists(ctx, string(kind), entityID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrInvalidEntityID) {
			return fmt.Errorf("%w: malformed entity id %q", ErrInvalidInput, entityID)
		}
		return fmt.Errorf("%w: failed to get entity: %v", ErrInternal, err)
	}
	if !found {
		s.logger.Warn("Upsert: entity %s/%s not found", kind, entityID)
		return ErrEntityNotFound
	}
	if !entity.IsActive {
		s.logger.Warn("Upsert: entity %s/%s is not active", kind, entityID)
		return ErrEntityInactive
	}
	return nil
}

// invalidate сбрасывает кэш шаблона; ошибки только логируются внутри кэша
func (s *Service) invalidate(ctx context.Context, kind domain.EntityKind, entityID string) {
	key := cache.TemplateKey(string(kind), entityID)
	_ = s.cache.Invalidate(context.WithoutCancel(ctx), cache.FamilyTemplate,
		[]string{key}, cache.Scope{Generations: []string{cache.GenerationKey(key)}})
}
