package mongostore

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/query"
)

func key(f query.Field) string {
	if f == query.FieldID {
		return "_id"
	}
	return string(f)
}

// renderFilter turns f into a find filter. Search text is quoted so regex
// metacharacters match literally.
func renderFilter(f query.Filter) bson.D {
	d := bson.D{}
	for _, c := range f.Eq {
		d = append(d, bson.E{Key: key(c.Field), Value: c.Value})
	}
	if f.HasSearch() {
		pat := query.RegexPattern(f.Term())
		or := bson.A{}
		for _, fld := range f.SearchFields {
			or = append(or, bson.D{{Key: key(fld), Value: bson.D{
				{Key: "$regex", Value: pat},
				{Key: "$options", Value: "i"},
			}}})
		}
		d = append(d, bson.E{Key: "$or", Value: or})
	}
	return d
}

// renderSort orders by s with an _id tiebreaker, or by insertion time.
func renderSort(s query.Sort) bson.D {
	if s.IsZero() {
		return bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	}
	dir := 1
	if s.Desc {
		dir = -1
	}
	d := bson.D{{Key: key(s.Field), Value: dir}}
	if s.Field != query.FieldID {
		d = append(d, bson.E{Key: "_id", Value: 1})
	}
	return d
}

// likeFilter matches the meal only while it still holds from. Documents
// written before likes/liked existed count as {0,false}.
func likeFilter(id string, from domain.LikeState) bson.D {
	d := bson.D{{Key: "_id", Value: id}}
	if from.Likes == 0 {
		d = append(d, bson.E{Key: "likes", Value: bson.D{{Key: "$in", Value: bson.A{0, nil}}}})
	} else {
		d = append(d, bson.E{Key: "likes", Value: from.Likes})
	}
	if from.Liked {
		d = append(d, bson.E{Key: "liked", Value: true})
	} else {
		d = append(d, bson.E{Key: "liked", Value: bson.D{{Key: "$in", Value: bson.A{false, nil}}}})
	}
	return d
}
