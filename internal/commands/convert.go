package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// Converter превращает сырой токен в типизированное значение.
// Конвертер может обращаться к внешним сервисам через контекст вызова,
// поэтому получает ctx и сам Invocation.
type Converter interface {
	Convert(ctx context.Context, inv *Invocation, raw string) (any, error)
}

// ConvertFunc адаптирует обычную функцию к интерфейсу Converter.
type ConvertFunc func(ctx context.Context, inv *Invocation, raw string) (any, error)

func (f ConvertFunc) Convert(ctx context.Context, inv *Invocation, raw string) (any, error) {
	return f(ctx, inv, raw)
}

func String() Converter {
	return ConvertFunc(func(_ context.Context, _ *Invocation, raw string) (any, error) {
		return raw, nil
	})
}

func Int() Converter {
	return ConvertFunc(func(_ context.Context, _ *Invocation, raw string) (any, error) {
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("ожидалось целое число, получено '%s'", raw)
		}

		return value, nil
	})
}

var (
	affirmativeValues = map[string]struct{}{"true": {}, "yes": {}, "1": {}, "y": {}}
	negativeValues    = map[string]struct{}{"false": {}, "no": {}, "0": {}, "n": {}}
)

func Bool() Converter {
	return ConvertFunc(func(_ context.Context, _ *Invocation, raw string) (any, error) {
		normalized := strings.ToLower(strings.TrimSpace(raw))

		if _, ok := affirmativeValues[normalized]; ok {
			return true, nil
		}

		if _, ok := negativeValues[normalized]; ok {
			return false, nil
		}

		return nil, fmt.Errorf("ожидалось логическое значение, получено '%s'", raw)
	})
}

type unionConverter struct {
	variants []Converter
}

// Union пробует варианты строго в порядке объявления; выигрывает первый
// успешный. Если не подошёл ни один, возвращается ошибка, агрегирующая
// причины отказа каждого варианта.
func Union(variants ...Converter) Converter {
	return &unionConverter{variants: variants}
}

func (u *unionConverter) Convert(ctx context.Context, inv *Invocation, raw string) (any, error) {
	var combined error

	for _, variant := range u.variants {
		value, err := variant.Convert(ctx, inv, raw)
		if err == nil {
			return value, nil
		}

		combined = multierr.Append(combined, err)
	}

	if combined == nil {
		combined = fmt.Errorf("объединение конвертеров не содержит вариантов")
	}

	return nil, combined
}

type absentConverter struct{}

func (absentConverter) Convert(_ context.Context, _ *Invocation, _ string) (any, error) {
	return nil, nil
}

// Optional — объединение с замыкающим вариантом «значение отсутствует»:
// при неудаче основного варианта аргумент связывается с nil, токен при
// этом считается потреблённым.
func Optional(variant Converter) Converter {
	return Union(variant, absentConverter{})
}
