package user

import (
	"github.com/studyhub/studyhub-backend/internal/database"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"id",
		"full_name",
		"email",
		"photo",
		"admin",
		"device_tokens",
	).
	From(database.UsersTable)
