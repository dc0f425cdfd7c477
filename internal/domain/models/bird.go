package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Bird is the persisted catalog record. The structured sections are
// opaque JSON documents stored verbatim; only the nested
// conservation_status.status value is ever queried into.
type Bird struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	BirdID                 string         `gorm:"uniqueIndex;not null" json:"bird_id"`
	Name                   string         `gorm:"not null" json:"name"`
	ScientificName         string         `gorm:"not null" json:"scientific_name"`
	ConservationStatus     datatypes.JSON `json:"conservation_status"`
	QuickFacts             datatypes.JSON `json:"quick_facts"`
	Tags                   datatypes.JSON `json:"tags"`
	Images                 datatypes.JSON `json:"images"`
	Overview               datatypes.JSON `json:"overview"`
	HabitatAndDistribution datatypes.JSON `json:"habitat_and_distribution"`
	DietAndBehavior        datatypes.JSON `json:"diet_and_behavior"`
	Sounds                 datatypes.JSON `json:"sounds"`
	RelatedBirds           datatypes.JSON `json:"related_birds"`
	MetaData               datatypes.JSON `gorm:"column:meta_data" json:"meta_data"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
}

// TableName overrides the default table name.
func (Bird) TableName() string {
	return "birds"
}

// BirdCreate is the request shape for creating a bird. Every field is
// required; the structured sections only need to be well-formed JSON.
type BirdCreate struct {
	BirdID                 string          `json:"bird_id" binding:"required"`
	Name                   string          `json:"name" binding:"required"`
	ScientificName         string          `json:"scientific_name" binding:"required"`
	ConservationStatus     json.RawMessage `json:"conservation_status" binding:"required"`
	QuickFacts             json.RawMessage `json:"quick_facts" binding:"required"`
	Tags                   json.RawMessage `json:"tags" binding:"required"`
	Images                 json.RawMessage `json:"images" binding:"required"`
	Overview               json.RawMessage `json:"overview" binding:"required"`
	HabitatAndDistribution json.RawMessage `json:"habitat_and_distribution" binding:"required"`
	DietAndBehavior        json.RawMessage `json:"diet_and_behavior" binding:"required"`
	Sounds                 json.RawMessage `json:"sounds" binding:"required"`
	RelatedBirds           json.RawMessage `json:"related_birds" binding:"required"`
	MetaData               json.RawMessage `json:"meta_data" binding:"required"`
}

// ToBird materializes the entity to insert. The surrogate id and
// timestamps are assigned by the store.
func (c BirdCreate) ToBird() Bird {
	return Bird{
		BirdID:                 c.BirdID,
		Name:                   c.Name,
		ScientificName:         c.ScientificName,
		ConservationStatus:     datatypes.JSON(c.ConservationStatus),
		QuickFacts:             datatypes.JSON(c.QuickFacts),
		Tags:                   datatypes.JSON(c.Tags),
		Images:                 datatypes.JSON(c.Images),
		Overview:               datatypes.JSON(c.Overview),
		HabitatAndDistribution: datatypes.JSON(c.HabitatAndDistribution),
		DietAndBehavior:        datatypes.JSON(c.DietAndBehavior),
		Sounds:                 datatypes.JSON(c.Sounds),
		RelatedBirds:           datatypes.JSON(c.RelatedBirds),
		MetaData:               datatypes.JSON(c.MetaData),
	}
}

// BirdUpdate is the request shape for a partial update. Absent fields
// leave the stored value untouched; present fields replace it wholesale,
// there is no deep merge of nested documents.
type BirdUpdate struct {
	Name                   *string         `json:"name"`
	ScientificName         *string         `json:"scientific_name"`
	ConservationStatus     json.RawMessage `json:"conservation_status"`
	QuickFacts             json.RawMessage `json:"quick_facts"`
	Tags                   json.RawMessage `json:"tags"`
	Images                 json.RawMessage `json:"images"`
	Overview               json.RawMessage `json:"overview"`
	HabitatAndDistribution json.RawMessage `json:"habitat_and_distribution"`
	DietAndBehavior        json.RawMessage `json:"diet_and_behavior"`
	Sounds                 json.RawMessage `json:"sounds"`
	RelatedBirds           json.RawMessage `json:"related_birds"`
	MetaData               json.RawMessage `json:"meta_data"`
}

// Updates maps the supplied fields to their column values for a partial
// update statement.
func (u BirdUpdate) Updates() map[string]any {
	fields := make(map[string]any)

	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.ScientificName != nil {
		fields["scientific_name"] = *u.ScientificName
	}

	jsonFields := map[string]json.RawMessage{
		"conservation_status":      u.ConservationStatus,
		"quick_facts":              u.QuickFacts,
		"tags":                     u.Tags,
		"images":                   u.Images,
		"overview":                 u.Overview,
		"habitat_and_distribution": u.HabitatAndDistribution,
		"diet_and_behavior":        u.DietAndBehavior,
		"sounds":                   u.Sounds,
		"related_birds":            u.RelatedBirds,
		"meta_data":                u.MetaData,
	}
	for column, value := range jsonFields {
		if value != nil {
			fields[column] = datatypes.JSON(value)
		}
	}

	return fields
}

// BirdResponse is the envelope returned by single-record endpoints.
type BirdResponse struct {
	Success bool  `json:"success"`
	Data    *Bird `json:"data"`
}
