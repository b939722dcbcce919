package model

// Tier is a performance bracket. A percentage belongs to the first tier,
// highest threshold first, whose MinPercentage it reaches.
type Tier struct {
	MinPercentage   float64  `json:"minPercentage" bson:"minPercentage"`
	Label           string   `json:"label" bson:"label"`
	ColorClass      string   `json:"colorClass" bson:"colorClass"`
	Description     string   `json:"description" bson:"description"`
	Recommendations []string `json:"recommendations" bson:"recommendations"`
}
