package mongorepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

type reportRepository struct {
	coll *mongo.Collection
}

// NewReportRepository returns the aggregation-pipeline report repository.
func NewReportRepository(db *mongo.Database) repository.ReportRepository {
	return &reportRepository{coll: db.Collection(complaintsCollection)}
}

func (r *reportRepository) CountComplaints(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *reportRepository) CountBy(ctx context.Context, field repository.GroupField) ([]repository.GroupCount, error) {
	switch field {
	case repository.GroupByStatus, repository.GroupByCategory, repository.GroupByPriority:
	default:
		return nil, fmt.Errorf("unsupported group field %q", field)
	}
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$" + string(field), "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	result := make([]repository.GroupCount, 0, len(rows))
	for _, row := range rows {
		result = append(result, repository.GroupCount{Key: row.Key, Count: row.Count})
	}
	return result, nil
}

func (r *reportRepository) Resolution(ctx context.Context) (repository.ResolutionStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":      domain.StatusResolved,
			"resolved_at": bson.M{"$exists": true, "$ne": nil},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"avgMs": bson.M{"$avg": bson.M{"$subtract": bson.A{"$resolved_at", "$created_at"}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return repository.ResolutionStats{}, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Count int64   `bson:"count"`
		AvgMs float64 `bson:"avgMs"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return repository.ResolutionStats{}, err
	}
	if len(rows) == 0 {
		return repository.ResolutionStats{}, nil
	}
	return repository.ResolutionStats{Resolved: rows[0].Count, AverageSeconds: rows[0].AvgMs / 1000}, nil
}

func (r *reportRepository) StaffWorkload(ctx context.Context) ([]repository.StaffWorkload, error) {
	countStatus := func(status domain.ComplaintStatus) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"assigned_to": bson.M{"$exists": true, "$ne": nil}}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$assigned_to",
			"total":      bson.M{"$sum": 1},
			"resolved":   countStatus(domain.StatusResolved),
			"pending":    countStatus(domain.StatusPending),
			"inProgress": countStatus(domain.StatusInProgress),
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "staff",
		}}},
		{{Key: "$unwind", Value: "$staff"}},
		{{Key: "$sort", Value: bson.M{"staff.name": 1}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID         primitive.ObjectID `bson:"_id"`
		Total      int64              `bson:"total"`
		Resolved   int64              `bson:"resolved"`
		Pending    int64              `bson:"pending"`
		InProgress int64              `bson:"inProgress"`
		Staff      userDocument       `bson:"staff"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	result := make([]repository.StaffWorkload, 0, len(rows))
	for _, row := range rows {
		result = append(result, repository.StaffWorkload{
			StaffID:    row.ID.Hex(),
			Name:       row.Staff.Name,
			Email:      row.Staff.Email,
			Total:      row.Total,
			Resolved:   row.Resolved,
			Pending:    row.Pending,
			InProgress: row.InProgress,
		})
	}
	return result, nil
}
