package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

type complaintRepository struct {
	coll *mongo.Collection
}

// NewComplaintRepository returns a MongoDB-backed complaint repository.
func NewComplaintRepository(db *mongo.Database) repository.ComplaintRepository {
	return &complaintRepository{coll: db.Collection(complaintsCollection)}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	student, ok := objectID(complaint.StudentID)
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	doc := complaintDocument{
		Title:       complaint.Title,
		Description: complaint.Description,
		Category:    string(complaint.Category),
		Priority:    string(complaint.Priority),
		Status:      string(complaint.Status),
		Student:     student,
		Attachments: complaint.Attachments,
		Feedback:    complaint.Feedback,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if doc.Attachments == nil {
		doc.Attachments = []domain.Attachment{}
	}
	if complaint.AssignedTo != nil {
		if oid, ok := objectID(*complaint.AssignedTo); ok {
			doc.AssignedTo = &oid
		}
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return mapMongoError(err)
	}
	complaint.ID = res.InsertedID.(primitive.ObjectID).Hex()
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	return nil
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	oid, ok := objectID(complaint.ID)
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	set := bson.M{
		"status":      complaint.Status,
		"priority":    complaint.Priority,
		"feedback":    complaint.Feedback,
		"resolved_at": complaint.ResolvedAt,
		"updated_at":  now,
	}
	if complaint.AssignedTo != nil {
		assignee, ok := objectID(*complaint.AssignedTo)
		if !ok {
			return repository.ErrNotFound
		}
		set["assigned_to"] = assignee
	} else {
		set["assigned_to"] = nil
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	complaint.UpdatedAt = now
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	var doc complaintDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	complaint := doc.toDomain()
	return &complaint, nil
}

func (r *complaintRepository) List(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	query := bson.M{}
	if filter.StudentID != nil {
		oid, ok := objectID(*filter.StudentID)
		if !ok {
			return []domain.Complaint{}, nil
		}
		query["student"] = oid
	}
	if filter.AssignedTo != nil {
		oid, ok := objectID(*filter.AssignedTo)
		if !ok {
			return []domain.Complaint{}, nil
		}
		query["assigned_to"] = oid
	}
	if len(filter.Statuses) > 0 {
		query["status"] = bson.M{"$in": filter.Statuses}
	}
	if len(filter.Categories) > 0 {
		query["category"] = bson.M{"$in": filter.Categories}
	}
	if len(filter.Priorities) > 0 {
		query["priority"] = bson.M{"$in": filter.Priorities}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
		if filter.Offset > 0 {
			opts.SetSkip(int64(filter.Offset))
		}
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []complaintDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	result := make([]domain.Complaint, 0, len(docs))
	for i := range docs {
		result = append(result, docs[i].toDomain())
	}
	return result, nil
}

func (r *complaintRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return repository.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
