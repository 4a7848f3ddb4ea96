package models

import (
	"github.com/google/uuid"
)

// User is the authenticated viewer's profile. Secret is only populated on the
// signIn response; it is the bearer credential for every other endpoint.
type User struct {
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	UserUUID        uuid.UUID `json:"userUUID"`
	Secret          uuid.UUID `json:"secret"`
	UserName        string    `json:"userName"`
	Bio             *string   `json:"bio,omitempty"`
	TechInterests   *string   `json:"techInterests,omitempty"`
	ProfileImageURL *string   `json:"profileImageUrl,omitempty"`
	Posts           []Post    `json:"posts,omitempty"`
	Followers       *int      `json:"followers,omitempty"`
	Following       *int      `json:"following,omitempty"`
}
