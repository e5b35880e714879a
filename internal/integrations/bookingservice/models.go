package bookingservice

// Статусы бронирования во внешнем сервисе
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Booking бронирование из сервиса бронирований
type Booking struct {
	ID         string `json:"id"`
	EntityID   string `json:"entity_id"`
	EntityKind string `json:"entity_kind"`
	UserID     string `json:"user_id"`
	Status     string `json:"status"`
}

// IsActive бронирование может занимать слот
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// BelongsTo бронирование оформлено на указанную сущность
func (b *Booking) BelongsTo(kind, entityID string) bool {
	return b.EntityKind == kind && b.EntityID == entityID
}
