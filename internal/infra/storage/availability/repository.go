package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const (
	tableName = "availability"

	// pgUniqueViolation код ошибки PostgreSQL unique_violation
	pgUniqueViolation = "23505"
)

var columns = []string{
	"id",
	"entity_id",
	"entity_kind",
	"day",
	"slots",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись. Нарушение уникальности (сущность, день) возвращает ErrAlreadyExists.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, record *domain.AvailabilityRecord) (*domain.AvailabilityRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.insertBuilder(record)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := r.scanInserted(executor.QueryRowContext(ctx, query, args...), record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return created, nil
}

// Upsert вставляет запись, если для (сущность, день) ее еще нет.
// При конфликте возвращает существующую запись и created=false.
func (r *Repository) Upsert(ctx context.Context, record *domain.AvailabilityRecord) (*domain.AvailabilityRecord, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.insertBuilder(record, "ON CONFLICT (entity_id, entity_kind, day) DO NOTHING")
	if err != nil {
		return nil, false, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := r.scanInserted(executor.QueryRowContext(ctx, query, args...), record)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	existing, err := r.GetByNaturalKey(ctx, record.Key())
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.AvailabilityRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	record, err := scanRecord(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan record: %v", ErrScanRow, err)
	}

	return record, nil
}

// GetByNaturalKey получает запись по (сущность, тип, день).
// Внутри транзакции строка блокируется (FOR UPDATE) до конца транзакции.
func (r *Repository) GetByNaturalKey(ctx context.Context, key domain.NaturalKey) (*domain.AvailabilityRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"entity_id":   key.EntityID,
			"entity_kind": string(key.EntityKind),
			"day":         types.FormatDate(key.Day),
		})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByNaturalKey - build select query: %v", ErrBuildQuery, err)
	}

	record, err := scanRecord(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByNaturalKey - scan record: %v", ErrScanRow, err)
	}

	return record, nil
}

// List получает записи сущности за период, отсортированные по дню
func (r *Repository) List(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailabilityRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"entity_id":   filter.EntityID,
			"entity_kind": string(filter.EntityKind),
		}).
		OrderBy("day ASC")

	// Фильтрация по периоду
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"day": types.FormatDate(*filter.From)})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"day": types.FormatDate(*filter.To)})
	}

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*domain.AvailabilityRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}

// Update заменяет слоты записи, если версия в БД равна expectedVersion.
// Иначе возвращает ErrVersionConflict. Версия увеличивается на 1.
func (r *Repository) Update(ctx context.Context, record *domain.AvailabilityRecord, expectedVersion int64) (*domain.AvailabilityRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	slots, err := encodeSlots(record.Slots)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - %v", ErrEncodeSlots, err)
	}

	query, args, err := psqlbuilder.Update(tableName).
		Set("slots", slots).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": record.ID, "version": expectedVersion}).
		Suffix("RETURNING version, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	updated := record.Clone()
	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updated.Version, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	updated.UpdatedAt = updatedAt.Time
	return updated, nil
}

// Delete удаляет запись по ID
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (r *Repository) insertBuilder(record *domain.AvailabilityRecord, suffix ...string) (string, []interface{}, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	slots, err := encodeSlots(record.Slots)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrEncodeSlots, err)
	}

	builder := psqlbuilder.Insert(tableName).
		Columns("id", "entity_id", "entity_kind", "day", "slots", "version").
		Values(record.ID, record.EntityID, string(record.EntityKind), types.FormatDate(record.Day), slots, 1)

	for _, s := range suffix {
		builder = builder.Suffix(s)
	}

	return builder.Suffix("RETURNING version, created_at, updated_at").ToSql()
}

func (r *Repository) scanInserted(row *sql.Row, record *domain.AvailabilityRecord) (*domain.AvailabilityRecord, error) {
	created := record.Clone()
	created.Day = types.TruncateDay(record.Day)

	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&created.Version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	created.CreatedAt = createdAt.Time
	created.UpdatedAt = updatedAt.Time
	return created, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*domain.AvailabilityRecord, error) {
	var (
		record               domain.AvailabilityRecord
		kind                 string
		day                  time.Time
		slots                []byte
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&record.ID,
		&record.EntityID,
		&kind,
		&day,
		&slots,
		&record.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	decoded, err := decodeSlots(slots)
	if err != nil {
		return nil, fmt.Errorf("decode slots of %s: %v", record.ID, err)
	}

	record.EntityKind = domain.EntityKind(kind)
	record.Day = types.TruncateDay(day)
	record.Slots = decoded
	record.CreatedAt = createdAt.Time
	record.UpdatedAt = updatedAt.Time

	return &record, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
