// Package mongorepo implements the repository interfaces on MongoDB.
package mongorepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

const (
	usersCollection      = "users"
	complaintsCollection = "complaints"
)

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Role         domain.Role        `bson:"role"`
	StudentID    *string            `bson:"student_id,omitempty"`
	Department   string             `bson:"department"`
	Phone        string             `bson:"phone"`
	Active       bool               `bson:"active"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *userDocument) toDomain() domain.User {
	return domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		StudentID:    d.StudentID,
		Department:   d.Department,
		Phone:        d.Phone,
		Active:       d.Active,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type complaintDocument struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Title       string              `bson:"title"`
	Description string              `bson:"description"`
	Category    string              `bson:"category"`
	Priority    string              `bson:"priority"`
	Status      string              `bson:"status"`
	Student     primitive.ObjectID  `bson:"student"`
	AssignedTo  *primitive.ObjectID `bson:"assigned_to,omitempty"`
	Attachments []domain.Attachment `bson:"attachments"`
	Feedback    *string             `bson:"feedback,omitempty"`
	ResolvedAt  *time.Time          `bson:"resolved_at,omitempty"`
	CreatedAt   time.Time           `bson:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"`
}

func (d *complaintDocument) toDomain() domain.Complaint {
	complaint := domain.Complaint{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Category:    domain.ComplaintCategory(d.Category),
		Priority:    domain.ComplaintPriority(d.Priority),
		Status:      domain.ComplaintStatus(d.Status),
		StudentID:   d.Student.Hex(),
		Attachments: d.Attachments,
		Feedback:    d.Feedback,
		ResolvedAt:  d.ResolvedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.AssignedTo != nil {
		assignee := d.AssignedTo.Hex()
		complaint.AssignedTo = &assignee
	}
	if complaint.Attachments == nil {
		complaint.Attachments = []domain.Attachment{}
	}
	return complaint
}

// EnsureIndexes creates the unique and sort indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "student_id", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"student_id": bson.M{"$exists": true}}),
		},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(complaintsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "student", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func mapMongoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}
