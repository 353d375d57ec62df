package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

var (
	identifierRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	tableRe      = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)
	castRe       = regexp.MustCompile(`^[a-z][a-z0-9_ ]*(\[\])?$`)
)

// Assignment одно присваивание "column = $n[::cast]".
type Assignment struct {
	Column string
	Value  interface{}
	Cast   string
}

// Assignments упорядоченный набор присваиваний. Порядок определяет нумерацию плейсхолдеров.
type Assignments []Assignment

// Set добавляет присваивание.
func (a Assignments) Set(column string, value interface{}) Assignments {
	return append(a, Assignment{Column: column, Value: value})
}

// SetCast добавляет присваивание с явным приведением типа.
func (a Assignments) SetCast(column string, value interface{}, cast string) Assignments {
	return append(a, Assignment{Column: column, Value: value, Cast: cast})
}

// SetIf добавляет присваивание, только если значение задано.
func SetIf[T any](a Assignments, column string, value *T) Assignments {
	if value == nil {
		return a
	}
	return a.Set(column, *value)
}

func (a Assignments) validate() error {
	seen := make(map[string]struct{}, len(a))
	for _, item := range a {
		if !identifierRe.MatchString(item.Column) {
			return fmt.Errorf("%w: column %q", ErrInvalidIdentifier, item.Column)
		}
		if item.Column == "updated_at" {
			return fmt.Errorf("%w: updated_at проставляется автоматически", ErrInvalidIdentifier)
		}
		if item.Cast != "" && !castRe.MatchString(item.Cast) {
			return fmt.Errorf("%w: cast %q", ErrInvalidIdentifier, item.Cast)
		}
		if _, dup := seen[item.Column]; dup {
			return fmt.Errorf("%w: column %q задана дважды", ErrInvalidIdentifier, item.Column)
		}
		seen[item.Column] = struct{}{}
	}
	return nil
}

func placeholder(n int, cast string) string {
	p := "$" + strconv.Itoa(n)
	if cast != "" {
		p += "::" + cast
	}
	return p
}

// RenumberPlaceholders сдвигает номера плейсхолдеров шаблона WHERE на offset.
// Шаблон использует локальную нумерацию $1..$argCount; суффиксы приведения (::uuid, ::text)
// остаются на месте, так как заменяются только цифры. Текст внутри одинарных кавычек не трогается.
// Каждый плейсхолдер обязан ссылаться на переданный параметр, а каждый параметр должен использоваться.
func RenumberPlaceholders(template string, offset, argCount int) (string, error) {
	var b strings.Builder
	b.Grow(len(template) + 8)

	used := make([]bool, argCount)
	inQuote := false

	for i := 0; i < len(template); {
		ch := template[i]
		if ch == '\'' {
			inQuote = !inQuote
			b.WriteByte(ch)
			i++
			continue
		}
		if ch != '$' || inQuote {
			b.WriteByte(ch)
			i++
			continue
		}

		j := i + 1
		for j < len(template) && template[j] >= '0' && template[j] <= '9' {
			j++
		}
		if j == i+1 {
			return "", fmt.Errorf("%w: '$' без номера в позиции %d", ErrMalformedTemplate, i)
		}

		n, err := strconv.Atoi(template[i+1 : j])
		if err != nil || n < 1 || n > argCount {
			return "", fmt.Errorf("%w: %s (параметров: %d)", ErrPlaceholderOutOfRange, template[i:j], argCount)
		}
		used[n-1] = true

		b.WriteString("$")
		b.WriteString(strconv.Itoa(n + offset))
		i = j
	}

	if inQuote {
		return "", fmt.Errorf("%w: незакрытая кавычка", ErrMalformedTemplate)
	}
	for idx, ok := range used {
		if !ok {
			return "", fmt.Errorf("%w: $%d", ErrUnusedParameter, idx+1)
		}
	}

	return b.String(), nil
}

// UpdateQuery описывает частичное обновление одной таблицы.
type UpdateQuery struct {
	Table     string
	Set       Assignments
	Where     string
	WhereArgs []interface{}
	Returning string
}

// Build собирает UPDATE ... SET ... WHERE ... RETURNING.
// SET получает $1..$N, WHERE получает $N+1..$N+k. updated_at = NOW() добавляется всегда.
func (q UpdateQuery) Build() (string, []interface{}, error) {
	if len(q.Set) == 0 {
		return "", nil, ErrNoFieldsToUpdate
	}
	if !tableRe.MatchString(q.Table) {
		return "", nil, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, q.Table)
	}
	if strings.TrimSpace(q.Where) == "" {
		return "", nil, fmt.Errorf("%w: пустое условие WHERE", ErrMalformedTemplate)
	}
	if err := q.Set.validate(); err != nil {
		return "", nil, err
	}

	setParts := make([]string, 0, len(q.Set)+1)
	args := make([]interface{}, 0, len(q.Set)+len(q.WhereArgs))
	for i, a := range q.Set {
		setParts = append(setParts, a.Column+" = "+placeholder(i+1, a.Cast))
		args = append(args, a.Value)
	}
	setParts = append(setParts, "updated_at = NOW()")

	where, err := RenumberPlaceholders(q.Where, len(q.Set), len(q.WhereArgs))
	if err != nil {
		return "", nil, err
	}
	args = append(args, q.WhereArgs...)

	returning := q.Returning
	if returning == "" {
		returning = "*"
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING %s",
		q.Table, strings.Join(setParts, ", "), where, returning)
	return query, args, nil
}

// ExecUpdate выполняет обновление и сканирует строку в dest.
// Если условие не совпало ни с одной строкой, возвращает found=false без ошибки.
func ExecUpdate(ctx context.Context, q sqlx.QueryerContext, upd UpdateQuery, dest interface{}) (bool, error) {
	query, args, err := upd.Build()
	if err != nil {
		return false, err
	}

	if err := sqlx.GetContext(ctx, q, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// InsertQuery описывает вставку одной строки.
type InsertQuery struct {
	Table     string
	Values    Assignments
	Returning string
}

// Build собирает INSERT INTO ... (cols) VALUES ($1..$N) RETURNING.
func (q InsertQuery) Build() (string, []interface{}, error) {
	if len(q.Values) == 0 {
		return "", nil, fmt.Errorf("%w: нет колонок для вставки", ErrMalformedTemplate)
	}
	if !tableRe.MatchString(q.Table) {
		return "", nil, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, q.Table)
	}
	if err := q.Values.validate(); err != nil {
		return "", nil, err
	}

	cols := make([]string, 0, len(q.Values))
	holders := make([]string, 0, len(q.Values))
	args := make([]interface{}, 0, len(q.Values))
	for i, v := range q.Values {
		cols = append(cols, v.Column)
		holders = append(holders, placeholder(i+1, v.Cast))
		args = append(args, v.Value)
	}

	returning := q.Returning
	if returning == "" {
		returning = "*"
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		q.Table, strings.Join(cols, ", "), strings.Join(holders, ", "), returning)
	return query, args, nil
}

// ExecInsert выполняет вставку и сканирует созданную строку в dest.
func ExecInsert(ctx context.Context, q sqlx.QueryerContext, ins InsertQuery, dest interface{}) error {
	query, args, err := ins.Build()
	if err != nil {
		return err
	}
	return sqlx.GetContext(ctx, q, dest, query, args...)
}
