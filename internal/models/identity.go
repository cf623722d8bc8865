package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role selects which identity collection an operation targets. Patients and
// doctors live in separate collections, so the same Aadhar number may exist
// once in each.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// Collection returns the MongoDB collection name backing the role.
func (r Role) Collection() string {
	if r == RoleDoctor {
		return "doctors"
	}
	return "patients"
}

// IsDoctor reports whether the role is the doctor variant.
func (r Role) IsDoctor() bool {
	return r == RoleDoctor
}

// ValidGenders is the fixed set accepted at registration.
var ValidGenders = []string{"male", "female", "other"}

// NormalizeGender lowercases the input and reports whether it is one of the
// accepted values.
func NormalizeGender(g string) (string, bool) {
	g = strings.ToLower(strings.TrimSpace(g))
	for _, v := range ValidGenders {
		if g == v {
			return g, true
		}
	}
	return "", false
}

// Identity is a portal user. Patients and doctors share every field except
// ImrNumber, which is the doctor's medical-register number and is empty for
// patients. The role flag is set at creation and never changes.
type Identity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"Name" json:"Name"`
	PhoneNumber  string             `bson:"PhoneNumber" json:"PhoneNumber"`
	Age          int                `bson:"Age" json:"Age"`
	Gender       string             `bson:"Gender" json:"Gender"`
	AadharNumber string             `bson:"AadharNumber" json:"AadharNumber"`
	Password     string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	ImrNumber    string             `bson:"ImrNumber,omitempty" json:"ImrNumber,omitempty"`
	RefreshToken string             `bson:"refreshToken,omitempty" json:"-"`
	IsDoctor     bool               `bson:"isDoctor" json:"isDoctor"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Role derives the role from the immutable doctor flag.
func (i *Identity) Role() Role {
	if i.IsDoctor {
		return RoleDoctor
	}
	return RolePatient
}

// Sanitized returns a copy safe to hand to clients: no password hash, no
// stored refresh token.
func (i *Identity) Sanitized() *Identity {
	c := *i
	c.Password = ""
	c.RefreshToken = ""
	return &c
}
