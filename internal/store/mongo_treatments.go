package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medivault/medivault-api/internal/models"
)

const treatmentCollection = "treatments"

// MongoTreatmentStore persists treatment records in a single collection.
type MongoTreatmentStore struct {
	db *mongo.Database
}

// NewMongoTreatmentStore wraps a connected database.
func NewMongoTreatmentStore(db *mongo.Database) *MongoTreatmentStore {
	return &MongoTreatmentStore{db: db}
}

func (s *MongoTreatmentStore) collection() *mongo.Collection {
	return s.db.Collection(treatmentCollection)
}

func (s *MongoTreatmentStore) Insert(ctx context.Context, t *models.Treatment) (*models.Treatment, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = models.TreatmentOngoing
	}
	if t.Reports == nil {
		t.Reports = []models.ReportFile{}
	}
	if t.Prescriptions == nil {
		t.Prescriptions = []models.ReportFile{}
	}

	if _, err := s.collection().InsertOne(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *MongoTreatmentStore) FindByID(ctx context.Context, id string) (*models.Treatment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var t models.Treatment
	err = s.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *MongoTreatmentStore) FindByPatientAadhar(ctx context.Context, aadhar string) ([]models.Treatment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(ctx, bson.M{"patientAadhar": aadhar}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var treatments []models.Treatment
	if err := cursor.All(ctx, &treatments); err != nil {
		return nil, err
	}
	if treatments == nil {
		treatments = make([]models.Treatment, 0)
	}
	return treatments, nil
}

func (s *MongoTreatmentStore) AppendFiles(ctx context.Context, id string, reports, prescriptions []models.ReportFile) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	push := bson.M{}
	if len(reports) > 0 {
		push["reports"] = bson.M{"$each": reports}
	}
	if len(prescriptions) > 0 {
		push["prescriptions"] = bson.M{"$each": prescriptions}
	}
	update := bson.M{"$set": bson.M{"updatedAt": time.Now().UTC()}}
	if len(push) > 0 {
		update["$push"] = push
	}

	res, err := s.collection().UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
