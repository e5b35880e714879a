package domain

// Business validation constants
const (
	MaxRangeDays        = 366 // год с запасом на високосный
	MaxSlotsPerDay      = 288 // 5-минутная сетка
	MaxReasonLength     = 255
	MaxBookingRefLength = 128
	MaxEntityIDLength   = 128
)

// Pagination
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)
