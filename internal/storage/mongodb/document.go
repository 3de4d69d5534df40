package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"profile/internal/domain"
)

type profileDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Email       string               `bson:"email"`
	Skills      []string             `bson:"skills"`
	Experiences []experienceDocument `bson:"experiences"`
	Information bson.M               `bson:"information"`
	Deleted     bool                 `bson:"deleted"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

type experienceDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Company     string             `bson:"company"`
	StartDate   *time.Time         `bson:"startDate,omitempty"`
	EndDate     *time.Time         `bson:"endDate,omitempty"`
	Description string             `bson:"description"`
}

func newExperienceDocument(in domain.ExperienceInput) experienceDocument {
	return experienceDocument{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Company:     in.Company,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Description: in.Description,
	}
}

func (d *profileDocument) toDomain() *domain.Profile {
	p := &domain.Profile{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Email:       d.Email,
		Skills:      d.Skills,
		Experiences: make([]domain.Experience, 0, len(d.Experiences)),
		Information: map[string]any(d.Information),
		Deleted:     d.Deleted,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}

	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Information == nil {
		p.Information = map[string]any{}
	}

	for _, e := range d.Experiences {
		p.Experiences = append(p.Experiences, domain.Experience{
			ID:          e.ID.Hex(),
			Title:       e.Title,
			Company:     e.Company,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Description: e.Description,
		})
	}

	return p
}
