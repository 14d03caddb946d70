package mongo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/garyjia/claim-forms/internal/domain/entity"
)

// submissionDocument is the stored shape of a form submission. The service id
// lives in "id"; Mongo's own _id is never exposed.
type submissionDocument struct {
	ObjectID         primitive.ObjectID `bson:"_id,omitempty"`
	ID               string             `bson:"id"`
	JobID            string             `bson:"jobId"`
	FormID           string             `bson:"formId"`
	FormType         string             `bson:"formType,omitempty"`
	SubmittedBy      string             `bson:"submittedBy"`
	Data             map[string]any     `bson:"data"`
	Signature        string             `bson:"signature,omitempty"`
	SubmittedAt      time.Time          `bson:"submittedAt"`
	SubmissionNumber int                `bson:"submissionNumber"`
	UpdatedAt        *time.Time         `bson:"updatedAt,omitempty"`
	UpdatedBy        string             `bson:"updatedBy,omitempty"`
}

func toDocument(s *entity.FormSubmission) submissionDocument {
	data := make(map[string]any, len(s.Data))
	for k, v := range s.Data {
		data[k] = v
	}
	return submissionDocument{
		ID:               s.ID,
		JobID:            s.JobID,
		FormID:           s.FormID,
		FormType:         s.FormType,
		SubmittedBy:      s.SubmittedBy,
		Data:             data,
		Signature:        s.Signature,
		SubmittedAt:      s.SubmittedAt,
		SubmissionNumber: s.SubmissionNumber,
		UpdatedAt:        s.UpdatedAt,
		UpdatedBy:        s.UpdatedBy,
	}
}

func (d submissionDocument) toEntity() *entity.FormSubmission {
	data := make(entity.SubmissionData, len(d.Data))
	for k, v := range d.Data {
		data[k] = fromBSON(v)
	}
	return &entity.FormSubmission{
		ID:               d.ID,
		JobID:            d.JobID,
		FormID:           d.FormID,
		FormType:         d.FormType,
		SubmittedBy:      d.SubmittedBy,
		Data:             data,
		Signature:        d.Signature,
		SubmittedAt:      d.SubmittedAt,
		SubmissionNumber: d.SubmissionNumber,
		UpdatedAt:        d.UpdatedAt,
		UpdatedBy:        d.UpdatedBy,
	}
}

// fromBSON maps decoded values back onto the submission value kinds
func fromBSON(v any) any {
	switch val := v.(type) {
	case primitive.A:
		list := make([]string, 0, len(val))
		for _, item := range val {
			list = append(list, fmt.Sprint(fromBSON(item)))
		}
		return list
	case int32:
		return fmt.Sprint(val)
	case int64:
		return fmt.Sprint(val)
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339)
	default:
		return entity.NormalizeValue(val)
	}
}
