package service_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	. "todoapi/pkg/test"

	"todoapi/internal/adapter/database/sqlite/repository"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	"todoapi/internal/core/service"
	"todoapi/pkg/test/factory"
)

type TodoServiceTestSuite struct {
	suite.Suite
	Service  *service.TodoService
	TodoRepo port.TodoRepository
	Now      time.Time
}

func (s *TodoServiceTestSuite) SetupTest() {
	db := InitTestDB()
	s.T().Cleanup(func() { db.Close() })

	s.Now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.TodoRepo = repository.NewTodoRepository(db, nil)
	s.Service = service.NewTodoService(s.TodoRepo, nil, service.WithClock(func() time.Time {
		return s.Now
	}))
}

func TestTodoServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)

	suite.Run(t, new(TodoServiceTestSuite))
}

func (s *TodoServiceTestSuite) TestService_List_Empty() {
	todos, err := s.Service.List(context.Background(), domain.TodoFilter{})

	Expect(err).To(BeNil())
	Expect(todos).To(BeEmpty())
}

func (s *TodoServiceTestSuite) TestService_Create_StampsCreatedAt() {
	todo := factory.NewTodo()
	completed := time.Now()
	todo.CompletedAt = &completed

	saved, err := s.Service.Create(context.Background(), todo)

	Expect(err).To(BeNil())
	Expect(saved.CreatedAt.Equal(s.Now)).To(BeTrue())
	Expect(saved.CompletedAt).To(BeNil())
}

func (s *TodoServiceTestSuite) TestService_Create_TitleRequired() {
	_, err := s.Service.Create(context.Background(), domain.Todo{})

	Expect(err).To(MatchError(domain.ErrTitleRequired))

	todos, _ := s.Service.List(context.Background(), domain.TodoFilter{})
	Expect(todos).To(BeEmpty())
}

func (s *TodoServiceTestSuite) TestService_Duplicate() {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	source := factory.NewTodo(map[string]any{"Title": "Buy milk", "Body": "2 liters"})
	source.DueDate = &due

	saved, err := s.Service.Create(context.Background(), source)
	assert.NoError(s.T(), err)

	s.Now = s.Now.Add(time.Minute)

	copied, err := s.Service.Duplicate(context.Background(), saved.ID)

	Expect(err).To(BeNil())
	Expect(copied.ID).NotTo(Equal(saved.ID))
	Expect(copied.Title).To(Equal("Copy of Buy milk. "))
	Expect(*copied.Body).To(Equal("2 liters"))
	Expect(copied.DueDate).To(BeNil())
	Expect(copied.CompletedAt).To(BeNil())
	Expect(copied.CreatedAt.Equal(s.Now)).To(BeTrue())

	original, err := s.Service.GetByID(context.Background(), saved.ID)

	Expect(err).To(BeNil())
	Expect(original.Title).To(Equal("Buy milk"))
}

func (s *TodoServiceTestSuite) TestService_Duplicate_NotFound() {
	_, err := s.Service.Duplicate(context.Background(), 999999)

	Expect(err).To(MatchError(domain.ErrTodoNotFound))

	todos, _ := s.Service.List(context.Background(), domain.TodoFilter{})
	Expect(todos).To(BeEmpty())
}

func (s *TodoServiceTestSuite) TestService_UpdateByID() {
	saved, err := s.Service.Create(context.Background(), factory.NewTodo(map[string]any{"Title": "A"}))
	assert.NoError(s.T(), err)

	title := "B"
	updated, err := s.Service.UpdateByID(context.Background(), saved.ID, domain.TodoPatch{Title: &title})

	Expect(err).To(BeNil())
	Expect(updated.Title).To(Equal("B"))
	Expect(updated.CreatedAt.Equal(saved.CreatedAt)).To(BeTrue())
}

func (s *TodoServiceTestSuite) TestService_DeleteByID() {
	saved, err := s.Service.Create(context.Background(), factory.NewTodo())
	assert.NoError(s.T(), err)

	Expect(s.Service.DeleteByID(context.Background(), saved.ID)).To(Succeed())
	Expect(s.Service.DeleteByID(context.Background(), saved.ID)).To(MatchError(domain.ErrTodoNotFound))
}
