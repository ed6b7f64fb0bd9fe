package handler

import (
	"context"
	"errors"
	"net/http"

	. "todoapi/internal/adapter/http/helper"
	. "todoapi/internal/adapter/http/validation"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
	"todoapi/internal/core/util"
	"todoapi/pkg/logger"
	. "todoapi/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type TodoHandler struct {
	svc    port.TodoService
	Logger *logger.LokiLogger
}

func NewTodoHandler(svc port.TodoService, logger *logger.LokiLogger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		Logger: logger,
	}
}

func startSpan(c *gin.Context, operation string) (context.Context, trace.Span) {
	return CreateChildSpan(c.Request.Context(), "handler.todo."+operation, []attribute.KeyValue{
		attribute.String("handler.operation", operation),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
}

// parseID answers 400 and returns false when the path id is not an integer.
func parseID(c *gin.Context, span trace.Span) (int64, bool) {
	id, err := request.ParseID(c.Param("id"))

	if err != nil {
		AddSpanError(span, err)
		SendBadRequestError(c, MessageInvalidID)
		return 0, false
	}

	span.SetAttributes(attribute.Int64("todo.id", id))

	return id, true
}

// sendRequestError answers 400 for malformed input and reports whether err was one.
func sendRequestError(c *gin.Context, span trace.Span, err error) bool {
	var dateErr *request.DateError

	if errors.As(err, &dateErr) {
		AddSpanError(span, err)
		SendBadRequestError(c, "Invalid "+dateErr.Field)
		return true
	}

	return false
}

func (t *TodoHandler) sendServiceError(c *gin.Context, ctx context.Context, span trace.Span, operation string, err error) {
	AddSpanError(span, err)

	switch {
	case errors.Is(err, domain.ErrTodoNotFound):
		SendNotFoundError(c)
	case errors.Is(err, domain.ErrTitleRequired):
		SendBadRequestError(c, "A title is required")
	default:
		t.Logger.ErrorWithTrace(ctx, "Todo operation failed",
			zap.String("operation", operation),
			zap.Error(err),
		)

		SendInternalError(c)
	}
}

func (t *TodoHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Todo API is running")
}

func (t *TodoHandler) ListTodos(c *gin.Context) {
	ctx, span := startSpan(c, "ListTodos")
	defer span.End()

	filter, err := request.NewListTodosQuery(c.Request.URL.Query()).ToFilter()

	if err != nil {
		if !sendRequestError(c, span, err) {
			SendBadRequestError(c, MessageInvalidBody)
		}
		return
	}

	todos, err := t.svc.List(ctx, filter)

	if err != nil {
		t.sendServiceError(c, ctx, span, "ListTodos", err)
		return
	}

	span.SetAttributes(attribute.Int("response.count", len(todos)))
	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)

	SendSuccess(c, http.StatusOK, response.NewTodoListResponse(todos))
}

func (t *TodoHandler) GetTodo(c *gin.Context) {
	ctx, span := startSpan(c, "GetTodo")
	defer span.End()

	id, ok := parseID(c, span)

	if !ok {
		return
	}

	todo, err := t.svc.GetByID(ctx, id)

	if err != nil {
		t.sendServiceError(c, ctx, span, "GetTodo", err)
		return
	}

	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx, span := startSpan(c, "CreateTodo")
	defer span.End()

	params, err := util.BindJSON[request.CreateTodoRequest](c)

	if err != nil {
		AddSpanError(span, err)
		SendBadRequestError(c, MessageInvalidBody)
		return
	}

	if err := Validator.Struct(params); err != nil {
		AddSpanError(span, err)
		SendValidationError(c, err)
		return
	}

	todo, err := params.ToDomain()

	if err != nil {
		sendRequestError(c, span, err)
		return
	}

	todo, err = t.svc.Create(ctx, todo)

	if err != nil {
		t.sendServiceError(c, ctx, span, "CreateTodo", err)
		return
	}

	span.SetAttributes(attribute.Int64("todo.id", todo.ID))
	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusCreated)

	SendSuccess(c, http.StatusCreated, response.NewTodoResponse(todo))
}

func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	ctx, span := startSpan(c, "UpdateTodo")
	defer span.End()

	id, ok := parseID(c, span)

	if !ok {
		return
	}

	params, err := util.BindJSON[request.UpdateTodoRequest](c)

	if err != nil {
		AddSpanError(span, err)
		SendBadRequestError(c, MessageInvalidBody)
		return
	}

	patch, err := params.ToPatch()

	if err != nil {
		sendRequestError(c, span, err)
		return
	}

	todo, err := t.svc.UpdateByID(ctx, id, patch)

	if err != nil {
		t.sendServiceError(c, ctx, span, "UpdateTodo", err)
		return
	}

	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	ctx, span := startSpan(c, "DeleteTodo")
	defer span.End()

	id, ok := parseID(c, span)

	if !ok {
		return
	}

	if err := t.svc.DeleteByID(ctx, id); err != nil {
		t.sendServiceError(c, ctx, span, "DeleteTodo", err)
		return
	}

	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)

	SendSuccess(c, http.StatusOK, gin.H{})
}

func (t *TodoHandler) DuplicateTodo(c *gin.Context) {
	ctx, span := startSpan(c, "DuplicateTodo")
	defer span.End()

	id, ok := parseID(c, span)

	if !ok {
		return
	}

	todo, err := t.svc.Duplicate(ctx, id)

	if err != nil {
		t.sendServiceError(c, ctx, span, "DuplicateTodo", err)
		return
	}

	span.SetAttributes(attribute.Int64("todo.copy_id", todo.ID))
	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusCreated)

	SendSuccess(c, http.StatusCreated, response.NewTodoResponse(todo))
}
