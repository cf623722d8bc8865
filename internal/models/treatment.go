package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportFile is the stored reference to a file already uploaded to the
// external object store. The API never handles file bytes itself.
type ReportFile struct {
	PublicID string `bson:"publicId" json:"publicId"`
	URL      string `bson:"url" json:"url"`
	Name     string `bson:"name,omitempty" json:"name,omitempty"`
}

// Treatment is a doctor's record against a patient: diagnosis, remarks and
// any report or prescription files attached later.
type Treatment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID     primitive.ObjectID `bson:"patientId" json:"patientId"`
	PatientAadhar string             `bson:"patientAadhar" json:"patientAadhar"`
	PatientName   string             `bson:"patientName" json:"patientName"`
	DoctorID      primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	DoctorName    string             `bson:"doctorName" json:"doctorName"`
	Disease       string             `bson:"disease" json:"disease"`
	Remarks       string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	Status        string             `bson:"status" json:"status"`
	Reports       []ReportFile       `bson:"reports" json:"reports"`
	Prescriptions []ReportFile       `bson:"prescriptions" json:"prescriptions"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Treatment statuses.
const (
	TreatmentOngoing   = "ongoing"
	TreatmentCompleted = "completed"
)
