// Package builder holds the editable, not-yet-necessarily-persisted form
// of a program tree. Every node carries a client-generated tempId that
// keys it until the backend assigns a server identity; a node is valid
// as long as it has at least one of the two. The builder tree doubles as
// the request body for the bulk save endpoint; tempIds are never echoed
// back by the server.
package builder

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jfloyd10/gofit/internal/domain"
)

// Program is the builder form of domain.Program. The server id is zero
// until the program has been persisted.
type Program struct {
	ID          primitive.ObjectID `json:"id,omitempty"`
	TempID      string             `json:"tempId"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Focus       domain.Focus       `json:"focus"`
	Difficulty  domain.Difficulty  `json:"difficulty"`
	Image       string             `json:"image,omitempty"`
	VideoURL    string             `json:"videoUrl,omitempty"`
	Price       float64            `json:"price"`
	IsPublic    bool               `json:"isPublic"`
	IsTemplate  bool               `json:"isTemplate"`
	Weeks       []Week             `json:"weeks"`
}

type Week struct {
	ID          primitive.ObjectID `json:"id,omitempty"`
	TempID      string             `json:"tempId"`
	WeekNumber  int                `json:"weekNumber"`
	Name        string             `json:"name,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	Sessions    []Session          `json:"sessions"`
	IsCollapsed bool               `json:"isCollapsed"` // editor UI state, not persisted
}

type Session struct {
	ID          primitive.ObjectID  `json:"id,omitempty"`
	TempID      string              `json:"tempId"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Focus       domain.SessionFocus `json:"focus"`
	DayOfWeek   domain.DayOfWeek    `json:"dayOfWeek"`
	DayOrdering int                 `json:"dayOrdering"`
	Blocks      []Block             `json:"blocks"`
}

type Block struct {
	ID             primitive.ObjectID `json:"id,omitempty"`
	TempID         string             `json:"tempId"`
	BlockOrder     int                `json:"blockOrder"`
	SchemeType     domain.SchemeType  `json:"schemeType"`
	Name           string             `json:"name,omitempty"`
	Notes          string             `json:"notes,omitempty"`
	DurationTarget *int               `json:"durationTarget,omitempty"`
	RoundsTarget   *int               `json:"roundsTarget,omitempty"`
	Activities     []Activity         `json:"activities"`
}

type Activity struct {
	ID             primitive.ObjectID `json:"id,omitempty"`
	TempID         string             `json:"tempId"`
	OrderInBlock   int                `json:"orderInBlock"`
	Exercise       *domain.Exercise   `json:"exercise,omitempty"`
	ManualName     string             `json:"manualName,omitempty"`
	ManualVideoURL string             `json:"manualVideoUrl,omitempty"`
	ManualImage    string             `json:"manualImage,omitempty"`
	Notes          string             `json:"notes,omitempty"`
	Prescriptions  []Prescription     `json:"prescriptions"`
}

type Prescription struct {
	ID            primitive.ObjectID   `json:"id,omitempty"`
	TempID        string               `json:"tempId"`
	SetNumber     int                  `json:"setNumber"`
	SetTag        domain.SetTag        `json:"setTag"`
	PrimaryMetric domain.PrimaryMetric `json:"primaryMetric"`
	Notes         string               `json:"notes,omitempty"`

	Reps        string   `json:"reps,omitempty"`
	RestSeconds *int     `json:"restSeconds,omitempty"`
	Tempo       string   `json:"tempo,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	IsPerSide   bool     `json:"isPerSide"`

	IntensityValue string               `json:"intensityValue,omitempty"`
	IntensityType  domain.IntensityType `json:"intensityType,omitempty"`

	DurationSeconds *int     `json:"durationSeconds,omitempty"`
	Distance        *float64 `json:"distance,omitempty"`
	Calories        *int     `json:"calories,omitempty"`

	ExtraData map[string]any `json:"extraData,omitempty"`
}

// Persisted reports whether the node already has a server identity.
func (p *Program) Persisted() bool       { return !p.ID.IsZero() }
func (w *Week) Persisted() bool          { return !w.ID.IsZero() }
func (s *Session) Persisted() bool       { return !s.ID.IsZero() }
func (b *Block) Persisted() bool         { return !b.ID.IsZero() }
func (a *Activity) Persisted() bool      { return !a.ID.IsZero() }
func (pr *Prescription) Persisted() bool { return !pr.ID.IsZero() }

// ErrMissingIdentity is returned by Validate when a node has neither a
// server id nor a tempId.
var ErrMissingIdentity = errors.New("builder node has neither a server id nor a tempId")

// Validate walks the tree and checks the single-identity invariant:
// every node has a tempId or a server id (or both), never neither.
func (p *Program) Validate() error {
	if p.TempID == "" && !p.Persisted() {
		return fmt.Errorf("program: %w", ErrMissingIdentity)
	}
	for i := range p.Weeks {
		w := &p.Weeks[i]
		if w.TempID == "" && !w.Persisted() {
			return fmt.Errorf("week %d: %w", i, ErrMissingIdentity)
		}
		for j := range w.Sessions {
			s := &w.Sessions[j]
			if s.TempID == "" && !s.Persisted() {
				return fmt.Errorf("week %d session %d: %w", i, j, ErrMissingIdentity)
			}
			for k := range s.Blocks {
				b := &s.Blocks[k]
				if b.TempID == "" && !b.Persisted() {
					return fmt.Errorf("week %d session %d block %d: %w", i, j, k, ErrMissingIdentity)
				}
				for l := range b.Activities {
					a := &b.Activities[l]
					if a.TempID == "" && !a.Persisted() {
						return fmt.Errorf("week %d session %d block %d activity %d: %w", i, j, k, l, ErrMissingIdentity)
					}
					for m := range a.Prescriptions {
						pr := &a.Prescriptions[m]
						if pr.TempID == "" && !pr.Persisted() {
							return fmt.Errorf("week %d session %d block %d activity %d prescription %d: %w", i, j, k, l, m, ErrMissingIdentity)
						}
					}
				}
			}
		}
	}
	return nil
}
