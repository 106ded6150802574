package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user account on the platform. Synthetic accounts created by the
// generator are marked with IsSynthetic and are otherwise indistinguishable from
// organically registered ones.
type User struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	Email          string     `db:"email" json:"email"`
	PasswordHash   string     `db:"password_hash" json:"-"` // Не отдаем хеш пароля
	Bio            string     `db:"bio" json:"bio"`
	ProfilePicture string     `db:"profile_picture" json:"profilePicture"`
	Birthday       *time.Time `db:"birthday" json:"birthday,omitempty"`
	Location       *string    `db:"location" json:"location,omitempty"`
	IsSynthetic    bool       `db:"is_synthetic" json:"isSynthetic"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}
