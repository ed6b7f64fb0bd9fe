package query

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	. "github.com/onsi/gomega"

	"todoapi/internal/core/domain"
)

func TestTodoFilterClauses_Empty(t *testing.T) {
	RegisterTestingT(t)

	Expect(TodoFilterClauses(domain.TodoFilter{})).To(BeEmpty())

	sql, args, err := ListTodos(sq.StatementBuilder, domain.TodoFilter{}).ToSql()

	Expect(err).To(BeNil())
	Expect(sql).To(Equal("SELECT id, title, body, due_date, completed_at, created_at FROM todos ORDER BY created_at DESC, id DESC"))
	Expect(args).To(BeEmpty())
}

func TestTodoFilterClauses_AllFilters(t *testing.T) {
	RegisterTestingT(t)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	completed := true

	sql, args, err := TodoFilterClauses(domain.TodoFilter{
		Title:        "milk",
		Body:         "store",
		DueDateStart: &start,
		DueDateEnd:   &end,
		Completed:    &completed,
	}).ToSql()

	Expect(err).To(BeNil())
	Expect(sql).To(Equal(`(title LIKE ? ESCAPE '\' AND body LIKE ? ESCAPE '\' AND due_date >= ? AND due_date <= ? AND completed_at IS NOT NULL)`))
	Expect(args).To(Equal([]interface{}{"%milk%", "%store%", start, end}))
}

func TestTodoFilterClauses_NotCompleted(t *testing.T) {
	RegisterTestingT(t)

	completed := false

	sql, _, err := TodoFilterClauses(domain.TodoFilter{Completed: &completed}).ToSql()

	Expect(err).To(BeNil())
	Expect(sql).To(Equal("(completed_at IS NULL)"))
}

func TestContains_EscapesWildcards(t *testing.T) {
	RegisterTestingT(t)

	_, args, err := Contains("title", `50%_off\`).ToSql()

	Expect(err).To(BeNil())
	Expect(args).To(Equal([]interface{}{`%50\%\_off\\%`}))
}

func TestListTodos_DollarPlaceholders(t *testing.T) {
	RegisterTestingT(t)

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	sql, _, err := ListTodos(builder, domain.TodoFilter{Title: "a", Body: "b"}).ToSql()

	Expect(err).To(BeNil())
	Expect(sql).To(ContainSubstring("title LIKE $1"))
	Expect(sql).To(ContainSubstring("body LIKE $2"))
}

func TestUTCChanges(t *testing.T) {
	RegisterTestingT(t)

	loc := time.FixedZone("UTC+2", 2*60*60)
	due := time.Date(2024, 1, 1, 12, 0, 0, 0, loc)
	title := "t"

	changes := UTCChanges(domain.TodoPatch{Title: &title, DueDate: &due})

	Expect(changes["title"]).To(Equal("t"))
	Expect(changes["due_date"].(time.Time).Location()).To(Equal(time.UTC))
	Expect(changes["due_date"].(time.Time).Hour()).To(Equal(10))
}
