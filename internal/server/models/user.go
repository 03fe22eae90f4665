// Package models defines server-side data models persisted by the stores.
package models

import "time"

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	University   string    `json:"university" bson:"university"`
	Address      string    `json:"address" bson:"address"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}
