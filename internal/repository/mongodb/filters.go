package mongodb

import (
	"regexp"

	"clubsphere/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// containsRegex matches s literally and case-insensitively anywhere in the field.
func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func clubFilter(f repository.ClubFilter) bson.D {
	filter := bson.D{}
	if f.Status != "" {
		filter = append(filter, bson.E{Key: "status", Value: f.Status})
	}
	if f.ManagerEmail != "" {
		filter = append(filter, bson.E{Key: "managerEmail", Value: f.ManagerEmail})
	}
	if f.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: f.Category})
	}
	if f.Search != "" {
		filter = append(filter, bson.E{Key: "clubName", Value: containsRegex(f.Search)})
	}
	return filter
}

func clubSort(s repository.ClubSort) bson.D {
	switch s {
	case repository.ClubOldest:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case repository.ClubFeeAsc:
		return bson.D{{Key: "membershipFee", Value: 1}, {Key: "createdAt", Value: -1}}
	case repository.ClubFeeDesc:
		return bson.D{{Key: "membershipFee", Value: -1}, {Key: "createdAt", Value: -1}}
	}
	return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
}

func eventFilter(f repository.EventFilter) bson.D {
	filter := bson.D{}
	if f.ClubID != "" {
		filter = append(filter, bson.E{Key: "clubId", Value: f.ClubID})
	}
	if f.Search != "" {
		filter = append(filter, bson.E{Key: "title", Value: containsRegex(f.Search)})
	}
	return filter
}

func eventSort(s repository.EventSort) bson.D {
	switch s {
	case repository.EventNewest:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	case repository.EventOldest:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case repository.EventFeeAsc:
		return bson.D{{Key: "eventFee", Value: 1}, {Key: "eventDate", Value: 1}}
	case repository.EventFeeDesc:
		return bson.D{{Key: "eventFee", Value: -1}, {Key: "eventDate", Value: 1}}
	}
	return bson.D{{Key: "eventDate", Value: 1}, {Key: "_id", Value: 1}}
}

// withScope adds a clubId restriction to filter. ok is false when the scope can match nothing.
func withScope(filter bson.D, scope repository.Scope) (bson.D, bool) {
	if scope.All() {
		return filter, true
	}
	if len(scope) == 0 {
		return filter, false
	}
	return append(filter, bson.E{Key: "clubId", Value: bson.D{{Key: "$in", Value: []string(scope)}}}), true
}
