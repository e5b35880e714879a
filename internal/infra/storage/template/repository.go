package template

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const tableName = "availability_templates"

var columns = []string{
	"id",
	"entity_id",
	"entity_kind",
	"base_slots",
	"weekdays",
	"window_days",
	"is_active",
	"created_at",
	"updated_at",
}

type baseSlotRow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Repository репозиторий шаблонов посева
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает шаблон сущности или полностью заменяет существующий
func (r *Repository) Upsert(ctx context.Context, tpl *domain.Template) (*domain.Template, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	baseSlots, weekdays, err := encodeTemplate(tpl)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("entity_id", "entity_kind", "base_slots", "weekdays", "window_days", "is_active").
		Values(tpl.EntityID, string(tpl.EntityKind), baseSlots, weekdays, tpl.WindowDays, tpl.IsActive).
		Suffix(`ON CONFLICT (entity_id, entity_kind) DO UPDATE SET
			base_slots = EXCLUDED.base_slots,
			weekdays = EXCLUDED.weekdays,
			window_days = EXCLUDED.window_days,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()`).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	saved := *tpl
	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&saved.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	saved.CreatedAt = createdAt.Time
	saved.UpdatedAt = updatedAt.Time

	return &saved, nil
}

// GetByEntity получает шаблон сущности
func (r *Repository) GetByEntity(ctx context.Context, entityID string, kind domain.EntityKind) (*domain.Template, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"entity_id": entityID, "entity_kind": string(kind)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByEntity - build select query: %v", ErrBuildQuery, err)
	}

	tpl, err := scanTemplate(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEntity - scan template: %v", ErrScanRow, err)
	}

	return tpl, nil
}

// ListActive получает все активные шаблоны (для сидера)
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Template, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	templates := make([]*domain.Template, 0)
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan row: %v", ErrScanRow, err)
		}
		templates = append(templates, tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return templates, nil
}

// DeleteByEntity удаляет шаблон сущности
func (r *Repository) DeleteByEntity(ctx context.Context, entityID string, kind domain.EntityKind) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"entity_id": entityID, "entity_kind": string(kind)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByEntity - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteByEntity - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteByEntity - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

func encodeTemplate(tpl *domain.Template) ([]byte, []byte, error) {
	rows := make([]baseSlotRow, 0, len(tpl.BaseSlots))
	for _, s := range tpl.BaseSlots {
		rows = append(rows, baseSlotRow{Start: s.Start.String(), End: s.End.String()})
	}

	baseSlots, err := json.Marshal(rows)
	if err != nil {
		return nil, nil, err
	}

	weekdays, err := json.Marshal(types.WeekdayNames(tpl.Weekdays))
	if err != nil {
		return nil, nil, err
	}

	return baseSlots, weekdays, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplate(row rowScanner) (*domain.Template, error) {
	var (
		tpl                  domain.Template
		kind                 string
		baseSlots, weekdays  []byte
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&tpl.ID,
		&tpl.EntityID,
		&kind,
		&baseSlots,
		&weekdays,
		&tpl.WindowDays,
		&tpl.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	var slotRows []baseSlotRow
	if err := json.Unmarshal(baseSlots, &slotRows); err != nil {
		return nil, fmt.Errorf("decode base_slots: %v", err)
	}
	for _, s := range slotRows {
		tpl.BaseSlots = append(tpl.BaseSlots, domain.BaseSlot{
			Start: types.TimeString(s.Start),
			End:   types.TimeString(s.End),
		})
	}

	var names []string
	if len(weekdays) > 0 {
		if err := json.Unmarshal(weekdays, &names); err != nil {
			return nil, fmt.Errorf("decode weekdays: %v", err)
		}
	}
	if tpl.Weekdays, err = types.ParseWeekdays(names); err != nil {
		return nil, fmt.Errorf("decode weekdays: %v", err)
	}

	tpl.EntityKind = domain.EntityKind(kind)
	tpl.CreatedAt = createdAt.Time
	tpl.UpdatedAt = updatedAt.Time

	return &tpl, nil
}
