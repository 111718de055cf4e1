package builder

import (
	"github.com/jfloyd10/gofit/internal/domain"
)

// FromProgram converts a persisted program into builder form for
// editing. Every node gets a fresh tempId alongside its server id, and
// all optional values are copied so edits never write through to the
// domain snapshot.
func FromProgram(p *domain.Program) *Program {
	bp := &Program{
		ID:          p.ID,
		TempID:      NewTempID(),
		Title:       p.Title,
		Description: p.Description,
		Focus:       p.Focus,
		Difficulty:  p.Difficulty,
		Image:       p.Image,
		VideoURL:    p.VideoURL,
		Price:       p.Price,
		IsPublic:    p.IsPublic,
		IsTemplate:  p.IsTemplate,
		Weeks:       make([]Week, 0, len(p.Weeks)),
	}
	for i := range p.Weeks {
		bp.Weeks = append(bp.Weeks, fromWeek(&p.Weeks[i]))
	}
	return bp
}

func fromWeek(w *domain.Week) Week {
	bw := Week{
		ID:         w.ID,
		TempID:     NewTempID(),
		WeekNumber: w.WeekNumber,
		Name:       w.Name,
		Notes:      w.Notes,
		Sessions:   make([]Session, 0, len(w.Sessions)),
	}
	for i := range w.Sessions {
		bw.Sessions = append(bw.Sessions, fromSession(&w.Sessions[i]))
	}
	return bw
}

func fromSession(s *domain.Session) Session {
	bs := Session{
		ID:          s.ID,
		TempID:      NewTempID(),
		Title:       s.Title,
		Description: s.Description,
		Focus:       s.Focus,
		DayOfWeek:   s.DayOfWeek,
		DayOrdering: s.DayOrdering,
		Blocks:      make([]Block, 0, len(s.Blocks)),
	}
	for i := range s.Blocks {
		bs.Blocks = append(bs.Blocks, fromBlock(&s.Blocks[i]))
	}
	return bs
}

func fromBlock(b *domain.SessionBlock) Block {
	bb := Block{
		ID:             b.ID,
		TempID:         NewTempID(),
		BlockOrder:     b.BlockOrder,
		SchemeType:     b.SchemeType,
		Name:           b.Name,
		Notes:          b.Notes,
		DurationTarget: copyInt(b.DurationTarget),
		RoundsTarget:   copyInt(b.RoundsTarget),
		Activities:     make([]Activity, 0, len(b.Activities)),
	}
	for i := range b.Activities {
		bb.Activities = append(bb.Activities, fromActivity(&b.Activities[i]))
	}
	return bb
}

func fromActivity(a *domain.Activity) Activity {
	ba := Activity{
		ID:             a.ID,
		TempID:         NewTempID(),
		OrderInBlock:   a.OrderInBlock,
		ManualName:     a.ManualName,
		ManualVideoURL: a.ManualVideoURL,
		ManualImage:    a.ManualImage,
		Notes:          a.Notes,
		Prescriptions:  make([]Prescription, 0, len(a.Prescriptions)),
	}
	if a.Exercise != nil {
		ex := *a.Exercise
		ba.Exercise = &ex
	}
	for i := range a.Prescriptions {
		ba.Prescriptions = append(ba.Prescriptions, fromPrescription(&a.Prescriptions[i]))
	}
	return ba
}

func fromPrescription(p *domain.Prescription) Prescription {
	bpres := Prescription{
		ID:              p.ID,
		TempID:          NewTempID(),
		SetNumber:       p.SetNumber,
		SetTag:          p.SetTag,
		PrimaryMetric:   p.PrimaryMetric,
		Notes:           p.Notes,
		Reps:            p.Reps,
		RestSeconds:     copyInt(p.RestSeconds),
		Tempo:           p.Tempo,
		Weight:          copyFloat(p.Weight),
		IsPerSide:       p.IsPerSide,
		IntensityValue:  p.IntensityValue,
		IntensityType:   p.IntensityType,
		DurationSeconds: copyInt(p.DurationSeconds),
		Distance:        copyFloat(p.Distance),
		Calories:        copyInt(p.Calories),
	}
	if len(p.ExtraData) > 0 {
		bpres.ExtraData = make(map[string]any, len(p.ExtraData))
		for k, v := range p.ExtraData {
			bpres.ExtraData[k] = v
		}
	}
	return bpres
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
