package commands

import (
	"strings"
	"unicode"
	"unicode/utf8"

	domainerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
)

type token struct {
	text string
	pos  int
}

type tokenization struct {
	positional []token
	specials   map[string]string
	rest       string
	hasRest    bool
}

// tokenize разбивает строку аргументов на позиционные токены, special-аргументы
// и необработанный «хвост» для consume-rest параметра. Special-аргументы
// извлекаются независимо от позиции; хвост начинается с первого токена,
// который не потребляется ни как позиционный, ни как special, и копируется
// дословно, с сохранением внутренних пробелов.
func (c *Command) tokenize(input string) (*tokenization, error) {
	result := &tokenization{specials: make(map[string]string)}

	positionalLimit := c.positionalCount()
	restParam := c.restParam()
	declaredSpecials := c.specialParams()
	scanSpecials := len(declaredSpecials) > 0
	delimiter := string(c.Delimiter)

	i := 0

	for {
		start := skipSpaces(input, i)
		if start >= len(input) {
			break
		}

		text, end, err := scanToken(input, start)
		if err != nil {
			return nil, err
		}

		i = end

		if scanSpecials && strings.Contains(text, delimiter) {
			key, value, _ := strings.Cut(text, delimiter)

			if _, declared := declaredSpecials[key]; !declared {
				return nil, &domainerrors.ErrArgumentParsing{
					Token:    text,
					Position: start,
					Reason:   "неизвестный special-аргумент '" + key + "'",
				}
			}

			if _, duplicate := result.specials[key]; duplicate {
				return nil, &domainerrors.ErrArgumentParsing{
					Token:    text,
					Position: start,
					Reason:   "повторный special-аргумент '" + key + "'",
				}
			}

			result.specials[key] = value

			continue
		}

		if len(result.positional) < positionalLimit {
			result.positional = append(result.positional, token{text: text, pos: start})
			continue
		}

		if restParam != nil {
			result.rest = input[start:]
			result.hasRest = true

			break
		}

		// лишние позиционные токены игнорируются связыванием
		result.positional = append(result.positional, token{text: text, pos: start})
	}

	return result, nil
}

func skipSpaces(input string, i int) int {
	for i < len(input) {
		r, size := utf8.DecodeRuneInString(input[i:])
		if !unicode.IsSpace(r) {
			break
		}

		i += size
	}

	return i
}

// scanToken читает один токен: кавычки объединяют фрагменты с пробелами,
// обратная косая черта экранирует только сам символ кавычки внутри
// закавыченного фрагмента.
func scanToken(input string, start int) (string, int, error) {
	var builder strings.Builder

	inQuotes := false
	quoteStart := -1
	i := start

	for i < len(input) {
		r, size := utf8.DecodeRuneInString(input[i:])

		switch {
		case r == '\\' && inQuotes && i+size < len(input) && input[i+size] == '"':
			builder.WriteByte('"')

			i += size + 1
		case r == '"':
			if inQuotes {
				inQuotes = false
			} else {
				inQuotes = true
				quoteStart = i
			}

			i += size
		case !inQuotes && unicode.IsSpace(r):
			return builder.String(), i, nil
		default:
			builder.WriteRune(r)

			i += size
		}
	}

	if inQuotes {
		return "", i, &domainerrors.ErrArgumentParsing{
			Token:    input[quoteStart:],
			Position: quoteStart,
			Reason:   "незакрытая кавычка",
		}
	}

	return builder.String(), i, nil
}

// splitFirstToken отделяет первый токен (имя команды) от остатка строки.
// Остаток сохраняется как есть, чтобы не потерять пробелы для consume-rest.
func splitFirstToken(s string) (string, string) {
	start := skipSpaces(s, 0)

	end := start
	for end < len(s) {
		r, size := utf8.DecodeRuneInString(s[end:])
		if unicode.IsSpace(r) {
			break
		}

		end += size
	}

	return s[start:end], s[end:]
}
