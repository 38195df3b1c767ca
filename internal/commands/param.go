package commands

type ParamKind int

const (
	KindPositional ParamKind = iota
	KindSpecial
	KindRest
)

func (k ParamKind) String() string {
	switch k {
	case KindSpecial:
		return "special"
	case KindRest:
		return "consume-rest"
	default:
		return "positional"
	}
}

// Parameter описывает один ожидаемый аргумент команды.
// Значение по умолчанию не проходит через конвертер: это готовое
// типизированное значение, подставляемое при отсутствии аргумента.
type Parameter struct {
	Name        string
	Kind        ParamKind
	Type        Converter
	Optional    bool
	Default     any
	Description string
}
