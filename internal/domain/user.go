package domain

import "github.com/google/uuid"

// User is a record of the identity store. This service only reads it.
type User struct {
	ID         uuid.UUID `json:"id" db:"id" bson:"_id"`
	Name       string    `json:"name" db:"name" bson:"name"`
	Username   string    `json:"UserName" db:"username" bson:"username"`
	ProfilePic *string   `json:"profilePic,omitempty" db:"profile_pic" bson:"profile_pic,omitempty"`
}

// DisplayName returns the best available human-readable name.
func (u *User) DisplayName() string {
	if u == nil {
		return "Unknown User"
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return "Unknown User"
}

// UserSummary is the identity subset exposed next to other records.
type UserSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Username   string    `json:"UserName"`
	ProfilePic *string   `json:"profilePic,omitempty"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		Username:   u.Username,
		ProfilePic: u.ProfilePic,
	}
}

// ParseID parses an identity reference coming from a request.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidUserID
	}
	return id, nil
}
