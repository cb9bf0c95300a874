package domain

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Avatar       string    `db:"avatar" json:"avatar,omitempty"`
	Bio          string    `db:"bio" json:"bio,omitempty"`
	Coins        int64     `db:"coins" json:"coins"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SignupBonusCoins is credited once when an account row is inserted.
const SignupBonusCoins = 100
