package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const msgInvalidRequest = "некорректные данные запроса"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator возвращает общий валидатор с тегами hhmm, entity_kind, weekday
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// имена полей в ошибках берем из json-тегов
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return types.TimeString(fl.Field().String()).Validate() == nil
		})
		_ = v.RegisterValidation("entity_kind", func(fl validator.FieldLevel) bool {
			return domain.EntityKind(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			_, err := types.ParseWeekday(fl.Field().String())
			return err == nil
		})

		validate = v
	})
	return validate
}

// ValidateStruct проверяет структуру по validate-тегам
func ValidateStruct(v interface{}) error {
	return Validator().Struct(v)
}

// ValidationMessage формирует читаемое сообщение из ошибок валидатора.
// Прочие ошибки (например, InvalidValidationError) наружу не раскрываются.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return msgInvalidRequest
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, describeFieldError(fe))
	}
	return strings.Join(parts, "; ")
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: обязательное поле", field)
	case "hhmm":
		return fmt.Sprintf("%s: ожидается время в формате HH:MM", field)
	case "entity_kind":
		return fmt.Sprintf("%s: неизвестный тип сущности, допустимые: %s", field, entityKindList())
	case "weekday":
		return fmt.Sprintf("%s: неизвестный день недели", field)
	case "min", "gte":
		return fmt.Sprintf("%s: значение меньше %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s: значение больше %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s: не прошло проверку %s", field, fe.Tag())
	}
}

func entityKindList() string {
	kinds := make([]string, len(domain.EntityKinds))
	for i, k := range domain.EntityKinds {
		kinds[i] = string(k)
	}
	return strings.Join(kinds, ", ")
}
