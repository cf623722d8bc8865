package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medivault/medivault-api/internal/models"
	"github.com/medivault/medivault-api/internal/utils"
)

// MongoIdentityStore keeps patients and doctors in two separate collections
// of the same database.
type MongoIdentityStore struct {
	db *mongo.Database
}

// NewMongoIdentityStore wraps a connected database.
func NewMongoIdentityStore(db *mongo.Database) *MongoIdentityStore {
	return &MongoIdentityStore{db: db}
}

// EnsureIndexes creates the unique AadharNumber index on both identity
// collections. Uniqueness is per collection: a patient and a doctor may
// share a number.
func (s *MongoIdentityStore) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "AadharNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	for _, role := range []models.Role{models.RolePatient, models.RoleDoctor} {
		if _, err := s.db.Collection(role.Collection()).Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}
	return nil
}

func (s *MongoIdentityStore) collection(role models.Role) *mongo.Collection {
	return s.db.Collection(role.Collection())
}

func (s *MongoIdentityStore) FindByAadhar(ctx context.Context, role models.Role, aadhar string) (*models.Identity, error) {
	var identity models.Identity
	err := s.collection(role).FindOne(ctx, bson.M{"AadharNumber": aadhar}).Decode(&identity)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &identity, nil
}

func (s *MongoIdentityStore) FindByID(ctx context.Context, role models.Role, id string) (*models.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var identity models.Identity
	err = s.collection(role).FindOne(ctx, bson.M{"_id": oid}).Decode(&identity)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &identity, nil
}

func (s *MongoIdentityStore) Create(ctx context.Context, role models.Role, identity *models.Identity) (*models.Identity, error) {
	if err := validateNewIdentity(role, identity); err != nil {
		return nil, err
	}

	gender, ok := models.NormalizeGender(identity.Gender)
	if !ok {
		return nil, &ValidationError{Message: "Invalid gender. Must be male, female, or other"}
	}

	// Pre-check gives the friendlier 409 path; the unique index still backs
	// it up under concurrent registration.
	if _, err := s.FindByAadhar(ctx, role, strings.TrimSpace(identity.AadharNumber)); err == nil {
		return nil, ErrDuplicateAadhar
	} else if err != ErrNotFound {
		return nil, err
	}

	hashed, err := utils.HashPassword(identity.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := models.Identity{
		ID:           primitive.NewObjectID(),
		Name:         strings.TrimSpace(identity.Name),
		PhoneNumber:  strings.TrimSpace(identity.PhoneNumber),
		Age:          identity.Age,
		Gender:       gender,
		AadharNumber: strings.TrimSpace(identity.AadharNumber),
		Password:     hashed,
		ImrNumber:    strings.TrimSpace(identity.ImrNumber),
		IsDoctor:     role.IsDoctor(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.collection(role).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateAadhar
		}
		return nil, err
	}
	return &doc, nil
}

func (s *MongoIdentityStore) SetRefreshToken(ctx context.Context, role models.Role, id, refreshToken string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{
		"$set": bson.M{"refreshToken": refreshToken, "updatedAt": time.Now().UTC()},
	}
	if refreshToken == "" {
		update = bson.M{
			"$unset": bson.M{"refreshToken": 1},
			"$set":   bson.M{"updatedAt": time.Now().UTC()},
		}
	}

	res, err := s.collection(role).UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func validateNewIdentity(role models.Role, identity *models.Identity) error {
	missing := identity.Name == "" ||
		identity.PhoneNumber == "" ||
		identity.Age <= 0 ||
		identity.Gender == "" ||
		identity.AadharNumber == "" ||
		identity.Password == ""
	if role == models.RoleDoctor && strings.TrimSpace(identity.ImrNumber) == "" {
		missing = true
	}
	if missing {
		return &ValidationError{Message: "Please enter all the required details"}
	}
	return nil
}
