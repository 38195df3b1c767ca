package commands

import (
	"context"

	domainerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
)

// bindArguments сопоставляет токены с параметрами в порядке объявления и
// сразу прогоняет каждое сырое значение через конвертер: первый сбой
// прерывает обход, последующие токены не конвертируются.
func bindArguments(ctx context.Context, inv *Invocation, tokens *tokenization) error {
	inv.Args = make(map[string]any, len(inv.Command.Params))

	positionalIdx := 0

	for _, param := range inv.Command.Params {
		var (
			raw   string
			found bool
		)

		switch param.Kind {
		case KindPositional:
			if positionalIdx < len(tokens.positional) {
				raw = tokens.positional[positionalIdx].text
				found = true
				positionalIdx++
			}
		case KindSpecial:
			raw, found = tokens.specials[param.Name]
		case KindRest:
			if tokens.hasRest && tokens.rest != "" {
				raw = tokens.rest
				found = true
			}
		}

		if !found {
			if param.Optional {
				inv.Args[param.Name] = param.Default
				continue
			}

			return &domainerrors.ErrMissingRequiredArgument{ParamName: param.Name}
		}

		value, err := param.Type.Convert(ctx, inv, raw)
		if err != nil {
			return &domainerrors.ErrBadArgument{ParamName: param.Name, Value: raw, Cause: err}
		}

		inv.Args[param.Name] = value
	}

	return nil
}
