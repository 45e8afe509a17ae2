package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID   uuid.UUID
	Name string
}

type Tag struct {
	ID   uuid.UUID
	Name string
}

type Post struct {
	ID         uuid.UUID
	AuthorID   uuid.UUID
	CategoryID *uuid.UUID
	Title      string
	Content    string
	Tags       []Tag
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
