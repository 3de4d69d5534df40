package mongodb

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"profile/internal/domain"
)

// listFilter translates list criteria into a collection filter.
func listFilter(f domain.ListProfilesFilter) bson.D {
	filter := bson.D{{Key: "deleted", Value: false}}

	if len(f.Skills) > 0 {
		filter = append(filter, bson.E{Key: "skills", Value: bson.D{{Key: "$in", Value: f.Skills}}})
	}
	if f.Location != "" {
		filter = append(filter, bson.E{Key: "information.location", Value: containsFold(f.Location)})
	}
	if f.Name != "" {
		filter = append(filter, bson.E{Key: "name", Value: containsFold(f.Name)})
	}
	if f.Email != "" {
		filter = append(filter, bson.E{Key: "email", Value: containsFold(f.Email)})
	}
	if f.Company != "" {
		filter = append(filter, bson.E{Key: "experiences.company", Value: containsFold(f.Company)})
	}

	return filter
}

func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// sortSpec returns nil when the natural order should be kept.
func sortSpec(s domain.Sort) bson.D {
	if s.Field == "" {
		return nil
	}

	field := s.Field
	if field == "id" {
		field = "_id"
	}

	dir := 1
	if s.Desc {
		dir = -1
	}

	return bson.D{{Key: field, Value: dir}}
}

func activeByID(id primitive.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "deleted", Value: false}}
}
