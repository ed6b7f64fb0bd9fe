package query

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"todoapi/internal/core/domain"
)

const TodosTable = "todos"

// TodoColumns is the column order every todo query selects and ScanTodo reads.
var TodoColumns = []string{"id", "title", "body", "due_date", "completed_at", "created_at"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains builds a substring LIKE predicate. Wildcards in value match literally.
func Contains(column, value string) sq.Sqlizer {
	return sq.Expr(column+` LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(value)+"%")
}

// TodoFilterClauses turns a filter into the list of predicates a todo must
// satisfy. An empty result means every todo matches.
func TodoFilterClauses(filter domain.TodoFilter) sq.And {
	clauses := sq.And{}

	if filter.Title != "" {
		clauses = append(clauses, Contains("title", filter.Title))
	}

	if filter.Body != "" {
		clauses = append(clauses, Contains("body", filter.Body))
	}

	if filter.DueDateStart != nil {
		clauses = append(clauses, sq.GtOrEq{"due_date": filter.DueDateStart.UTC()})
	}

	if filter.DueDateEnd != nil {
		clauses = append(clauses, sq.LtOrEq{"due_date": filter.DueDateEnd.UTC()})
	}

	if filter.Completed != nil {
		if *filter.Completed {
			clauses = append(clauses, sq.NotEq{"completed_at": nil})
		} else {
			clauses = append(clauses, sq.Eq{"completed_at": nil})
		}
	}

	return clauses
}

// ListTodos selects the todos matching filter, newest first.
func ListTodos(builder sq.StatementBuilderType, filter domain.TodoFilter) sq.SelectBuilder {
	stmt := builder.Select(TodoColumns...).
		From(TodosTable).
		OrderBy("created_at DESC", "id DESC")

	if clauses := TodoFilterClauses(filter); len(clauses) > 0 {
		stmt = stmt.Where(clauses)
	}

	return stmt
}

// NullableTime converts an optional time into a driver value stored in UTC.
func NullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}

	return t.UTC()
}

// UTCChanges normalizes the time values of a patch before they are written.
func UTCChanges(patch domain.TodoPatch) map[string]interface{} {
	changes := patch.Changes()

	for column, value := range changes {
		if t, ok := value.(time.Time); ok {
			changes[column] = t.UTC()
		}
	}

	return changes
}
