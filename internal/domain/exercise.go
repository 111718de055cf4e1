package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a canonical exercise definition in the library. Official
// exercises have no owner and are visible to everyone; custom exercises
// belong to the user who created them.
type Exercise struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"` // nil for official exercises
	Name            string              `bson:"name" json:"name"`
	Description     string              `bson:"description,omitempty" json:"description,omitempty"`
	Category        string              `bson:"category,omitempty" json:"category,omitempty"`
	EquipmentNeeded string              `bson:"equipmentNeeded,omitempty" json:"equipmentNeeded,omitempty"` // comma-separated
	MuscleGroups    string              `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"`       // comma-separated
	Image           string              `bson:"image,omitempty" json:"image,omitempty"`
	VideoURL        string              `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`

	// Seed values consumed when building an activity from this exercise.
	DefaultSets int `bson:"defaultSets" json:"defaultSets"`
	DefaultReps int `bson:"defaultReps" json:"defaultReps"`
	DefaultRest int `bson:"defaultRest" json:"defaultRest"`

	IsOfficial bool      `bson:"isOfficial" json:"isOfficial"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether the exercise is a custom exercise belonging
// to the given user.
func (e *Exercise) OwnedBy(userID primitive.ObjectID) bool {
	return e.UserID != nil && *e.UserID == userID
}
