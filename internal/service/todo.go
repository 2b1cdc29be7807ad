package service

import (
	"context"
	"errors"

	"github.com/tasktrack/tasktrack-go/internal/model"
	"github.com/tasktrack/tasktrack-go/internal/repository"
)

var ErrOwnerMismatch = errors.New("email does not match authenticated user")

// TodoStore persists todos scoped by owner email.
type TodoStore interface {
	Create(ctx context.Context, text string, done bool, ownerEmail string) (int64, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]model.Todo, error)
	ToggleDone(ctx context.Context, id int64, ownerEmail string) (int64, error)
	Delete(ctx context.Context, id int64, ownerEmail string) (int64, error)
}

// TodoService runs todo operations on behalf of an authenticated user. The
// owner email always comes from the user record behind the verified token.
type TodoService struct {
	todos TodoStore
	users UserStore
}

// NewTodoService creates a new TodoService.
func NewTodoService(todos TodoStore, users UserStore) *TodoService {
	return &TodoService{todos: todos, users: users}
}

// Create stores a todo for the user. A non-empty req.Email must name the
// user itself.
func (s *TodoService) Create(ctx context.Context, userID int64, req model.CreateTodoRequest) (model.WriteResult, error) {
	owner, err := s.owner(ctx, userID, req.Email)
	if err != nil {
		return model.WriteResult{}, err
	}

	id, err := s.todos.Create(ctx, req.Text, req.Done, owner)
	if err != nil {
		return model.WriteResult{}, err
	}

	return model.WriteResult{InsertID: id, AffectedRows: 1}, nil
}

// List returns the user's todos. A non-empty email must name the user itself.
func (s *TodoService) List(ctx context.Context, userID int64, email string) ([]model.Todo, error) {
	owner, err := s.owner(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	return s.todos.ListByOwner(ctx, owner)
}

// ToggleDone flips the done flag of one of the user's todos. Ids that do not
// exist or belong to someone else report zero affected rows.
func (s *TodoService) ToggleDone(ctx context.Context, userID, todoID int64) (model.WriteResult, error) {
	owner, err := s.owner(ctx, userID, "")
	if err != nil {
		return model.WriteResult{}, err
	}

	n, err := s.todos.ToggleDone(ctx, todoID, owner)
	if err != nil {
		return model.WriteResult{}, err
	}

	return model.WriteResult{AffectedRows: n}, nil
}

// Delete removes one of the user's todos, with the same zero-row semantics
// as ToggleDone.
func (s *TodoService) Delete(ctx context.Context, userID, todoID int64) (model.WriteResult, error) {
	owner, err := s.owner(ctx, userID, "")
	if err != nil {
		return model.WriteResult{}, err
	}

	n, err := s.todos.Delete(ctx, todoID, owner)
	if err != nil {
		return model.WriteResult{}, err
	}

	return model.WriteResult{AffectedRows: n}, nil
}

// owner resolves the verified user's email and checks it against the email
// the client claimed, if any.
func (s *TodoService) owner(ctx context.Context, userID int64, claimed string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUnknownOwner
		}
		return "", err
	}

	if claimed != "" && claimed != user.Email {
		return "", ErrOwnerMismatch
	}

	return user.Email, nil
}
