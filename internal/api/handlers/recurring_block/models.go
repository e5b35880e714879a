package recurring_block

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	recurringBlock "github.com/m04kA/SMC-AvailabilityService/internal/usecase/recurring_block"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// RecurringBlockRequest HTTP request model
type RecurringBlockRequest struct {
	From     string   `json:"from" validate:"required,datetime=2006-01-02"` // "2024-03-04"
	To       string   `json:"to" validate:"required,datetime=2006-01-02"`
	Start    string   `json:"start" validate:"required,hhmm"`
	End      string   `json:"end" validate:"required,hhmm"`
	Reason   string   `json:"reason,omitempty" validate:"max=255"`
	Weekdays []string `json:"weekdays" validate:"required,min=1,max=7,dive,weekday"` // monday..sunday
}

// DayFailureResponse день, который не удалось заблокировать
type DayFailureResponse struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// RecurringBlockResponse HTTP response model
type RecurringBlockResponse struct {
	Blocked      []string             `json:"blocked"`
	Failures     []DayFailureResponse `json:"failures"`
	DaysInRange  int                  `json:"daysInRange"`
	MatchingDays int                  `json:"matchingDays"`
	Partial      bool                 `json:"partial"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RecurringBlockRequest) ToUseCaseRequest(path handlers.EntityPath) (*recurringBlock.Request, error) {
	from, err := types.ParseDate(r.From)
	if err != nil {
		return nil, err
	}
	to, err := types.ParseDate(r.To)
	if err != nil {
		return nil, err
	}

	return &recurringBlock.Request{
		EntityID:   path.EntityID,
		EntityKind: path.Kind,
		From:       from,
		To:         to,
		Start:      types.TimeString(r.Start),
		End:        types.TimeString(r.End),
		Reason:     r.Reason,
		Weekdays:   r.Weekdays,
	}, nil
}

// FromDayFailures конвертирует причины пропуска дней
func FromDayFailures(failures []recurringBlock.DayFailure) []DayFailureResponse {
	out := make([]DayFailureResponse, 0, len(failures))
	for _, f := range failures {
		out = append(out, DayFailureResponse{Date: types.FormatDate(f.Day), Reason: f.Reason})
	}
	return out
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *recurringBlock.Response) *RecurringBlockResponse {
	return &RecurringBlockResponse{
		Blocked:      handlers.FormatDates(resp.Blocked),
		Failures:     FromDayFailures(resp.Failures),
		DaysInRange:  resp.DaysInRange,
		MatchingDays: resp.MatchingDays,
		Partial:      resp.Partial(),
	}
}
