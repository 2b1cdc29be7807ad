package model

// Todo represents a row in the todos table. JSON names follow the column names
// so existing clients keep reading the same shape.
type Todo struct {
	ID         int64  `db:"id" json:"id"`
	Text       string `db:"todo" json:"todo"`
	Done       bool   `db:"done" json:"done"`
	OwnerEmail string `db:"fk_email_user" json:"fk_email_user"`
}

// CreateTodoRequest represents a todo creation request. Email is optional and,
// when present, must match the authenticated owner.
type CreateTodoRequest struct {
	Text  string `json:"todo" validate:"required"`
	Done  bool   `json:"done"`
	Email string `json:"email"`
}
