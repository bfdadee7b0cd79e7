// Package user defines the persisted User entity and its schema-level
// invariants.
package user

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents the sole persisted entity. The password field holds the
// bcrypt hash after HashPassword has run; it is never serialized to JSON.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"name" json:"name" validate:"required,nodigits"`
	Age      int                `bson:"age" json:"age" validate:"required,min=1,max=100"`
	Email    string             `bson:"email" json:"email" validate:"required,emailstrict"`
	Password string             `bson:"password" json:"-" validate:"required,strongpassword"`
}

// PasswordHasher is the hashing collaborator consumed by the entity
// lifecycle. pkg/security provides the bcrypt implementation.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hashed, plain string) error
}

// HashPassword replaces the plaintext password with its hash. Call only
// after Validate has accepted the plaintext.
func (u *User) HashPassword(h PasswordHasher) error {
	hashed, err := h.Hash(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// View is the outward shape of a user: everything but the password.
type View struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Age   int                `json:"age"`
}

// AsView strips the password for serialization.
func (u *User) AsView() View {
	return View{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Age:   u.Age,
	}
}
