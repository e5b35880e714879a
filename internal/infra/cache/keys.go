package cache

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Семейства ключей (метка family в метриках)
const (
	FamilyRecordByID  = "availability_id"
	FamilyRecordByDay = "availability_day"
	FamilyRecordList  = "availability_list"
	FamilyTemplate    = "template"
)

const keyPrefix = "availability"

// RecordIDKey запись по ID
func RecordIDKey(id string) string {
	return fmt.Sprintf("%s:id:%s", keyPrefix, id)
}

// RecordDayKey запись по естественному ключу
func RecordDayKey(kind, entityID string, day time.Time) string {
	return fmt.Sprintf("%s:day:%s:%s:%s", keyPrefix, kind, entityID, types.FormatDate(day))
}

// RecordListKey страница списка записей сущности; from/to пустые, если граница не задана
func RecordListKey(kind, entityID, from, to string, offset, limit int) string {
	return fmt.Sprintf("%s:list:%s:%s:%s:%s:%d:%d", keyPrefix, kind, entityID, from, to, offset, limit)
}

// EntityIndexKey множество производных ключей сущности, которые нельзя назвать точно (страницы списков)
func EntityIndexKey(kind, entityID string) string {
	return fmt.Sprintf("%s:idx:entity:%s:%s", keyPrefix, kind, entityID)
}

// TemplateKey шаблон посева сущности
func TemplateKey(kind, entityID string) string {
	return fmt.Sprintf("%s:template:%s:%s", keyPrefix, kind, entityID)
}

// GenerationKey счетчик поколений для ключа или индекса
func GenerationKey(key string) string {
	return key + ":gen"
}
