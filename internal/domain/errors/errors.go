package errors

import (
	"fmt"
	"time"
)

type ErrCommandNotFound struct {
	Name string
}

func (e *ErrCommandNotFound) Error() string {
	return "команда не найдена: " + e.Name
}

func (e *ErrCommandNotFound) Is(target error) bool {
	_, ok := target.(*ErrCommandNotFound)
	return ok
}

type ErrCommandExists struct {
	Name string
}

func (e *ErrCommandExists) Error() string {
	return "команда с таким именем или алиасом уже зарегистрирована: " + e.Name
}

func (e *ErrCommandExists) Is(target error) bool {
	_, ok := target.(*ErrCommandExists)
	return ok
}

type ErrArgumentParsing struct {
	Token    string
	Position int
	Reason   string
}

func (e *ErrArgumentParsing) Error() string {
	return fmt.Sprintf("ошибка разбора аргументов на позиции %d: %s", e.Position, e.Reason)
}

func (e *ErrArgumentParsing) Is(target error) bool {
	_, ok := target.(*ErrArgumentParsing)
	return ok
}

type ErrMissingRequiredArgument struct {
	ParamName string
}

func (e *ErrMissingRequiredArgument) Error() string {
	return "отсутствует обязательный аргумент: " + e.ParamName
}

func (e *ErrMissingRequiredArgument) Is(target error) bool {
	_, ok := target.(*ErrMissingRequiredArgument)
	return ok
}

type ErrBadArgument struct {
	ParamName string
	Value     string
	Cause     error
}

func (e *ErrBadArgument) Error() string {
	return fmt.Sprintf("некорректное значение '%s' для аргумента '%s': %v", e.Value, e.ParamName, e.Cause)
}

func (e *ErrBadArgument) Is(target error) bool {
	_, ok := target.(*ErrBadArgument)
	return ok
}

func (e *ErrBadArgument) Unwrap() error {
	return e.Cause
}

type ErrCheckFailure struct {
	Guard   string
	Message string
	Cause   error
}

func (e *ErrCheckFailure) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("проверка '%s' не пройдена: %s", e.Guard, e.Message)
	}

	return fmt.Sprintf("проверка '%s' не пройдена", e.Guard)
}

func (e *ErrCheckFailure) Is(target error) bool {
	_, ok := target.(*ErrCheckFailure)
	return ok
}

func (e *ErrCheckFailure) Unwrap() error {
	return e.Cause
}

type ErrCommandOnCooldown struct {
	RetryAfter time.Duration
}

func (e *ErrCommandOnCooldown) Error() string {
	return fmt.Sprintf("команда на перезарядке, повторите через %.1f с", e.RetryAfter.Seconds())
}

func (e *ErrCommandOnCooldown) Is(target error) bool {
	_, ok := target.(*ErrCommandOnCooldown)
	return ok
}

type ErrCommandInvoke struct {
	CommandName string
	Cause       error
}

func (e *ErrCommandInvoke) Error() string {
	return fmt.Sprintf("ошибка при выполнении команды '%s': %v", e.CommandName, e.Cause)
}

func (e *ErrCommandInvoke) Is(target error) bool {
	_, ok := target.(*ErrCommandInvoke)
	return ok
}

func (e *ErrCommandInvoke) Unwrap() error {
	return e.Cause
}

type ErrInvalidCommand struct {
	Name   string
	Reason string
}

func (e *ErrInvalidCommand) Error() string {
	return fmt.Sprintf("некорректное описание команды '%s': %s", e.Name, e.Reason)
}

func (e *ErrInvalidCommand) Is(target error) bool {
	_, ok := target.(*ErrInvalidCommand)
	return ok
}

type ErrInvalidParameter struct {
	CommandName string
	ParamName   string
	Reason      string
}

func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("некорректное описание параметра '%s' команды '%s': %s", e.ParamName, e.CommandName, e.Reason)
}

func (e *ErrInvalidParameter) Is(target error) bool {
	_, ok := target.(*ErrInvalidParameter)
	return ok
}

// ErrEntityNotFound возникает, когда справочный сервис не знает пользователя или чат.
type ErrEntityNotFound struct {
	Kind string
	Raw  string
}

func (e *ErrEntityNotFound) Error() string {
	return fmt.Sprintf("%s не найден: %s", e.Kind, e.Raw)
}

func (e *ErrEntityNotFound) Is(target error) bool {
	_, ok := target.(*ErrEntityNotFound)
	return ok
}

type ErrReminderNotFound struct {
	ID int64
}

func (e *ErrReminderNotFound) Error() string {
	return fmt.Sprintf("напоминание не найдено: %d", e.ID)
}

func (e *ErrReminderNotFound) Is(target error) bool {
	_, ok := target.(*ErrReminderNotFound)
	return ok
}

type ErrMissingRequiredField struct {
	FieldName string
}

func (e *ErrMissingRequiredField) Error() string {
	return fmt.Sprintf("отсутствует обязательное поле: %s", e.FieldName)
}

type ErrInternalServer struct {
	Message string
}

func (e *ErrInternalServer) Error() string {
	return "внутренняя ошибка сервера: " + e.Message
}

type ErrUnknownDBAccessType struct {
	AccessType string
}

func (e *ErrUnknownDBAccessType) Error() string {
	return fmt.Sprintf("неизвестный тип доступа к базе данных: %s", e.AccessType)
}

type ErrBuildSQLQuery struct {
	Operation string
	Cause     error
}

func (e *ErrBuildSQLQuery) Error() string {
	return fmt.Sprintf("ошибка при построении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrBuildSQLQuery) Unwrap() error {
	return e.Cause
}

type ErrSQLExecution struct {
	Operation string
	Cause     error
}

func (e *ErrSQLExecution) Error() string {
	return fmt.Sprintf("ошибка при выполнении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrSQLExecution) Unwrap() error {
	return e.Cause
}

type ErrSQLScan struct {
	Entity string
	Cause  error
}

func (e *ErrSQLScan) Error() string {
	return fmt.Sprintf("ошибка при сканировании %s: %v", e.Entity, e.Cause)
}

func (e *ErrSQLScan) Unwrap() error {
	return e.Cause
}

type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("bad request: %s", e.Message)
}

type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}
