package store

// SaveTemplates replaces the template list and writes the whole record.
func (s *Store) SaveTemplates(templates []Template) error {
	next := make([]Template, len(templates))
	for i, t := range templates {
		next[i] = t.Clone()
	}
	err := s.state.update(func(d *AppData) { d.Templates = next })
	if err != nil {
		s.log.Errorw("save templates failed", "count", len(templates), "error", err)
	}
	return err
}

// TemplateFromWeek captures the layout of week without block ids.
func TemplateFromWeek(id, name string, week WeekData) Template {
	t := Template{ID: id, Name: name, Blocks: make([]TemplateBlock, 0, len(week.Blocks))}
	for _, b := range week.Blocks {
		t.Blocks = append(t.Blocks, TemplateBlock{ProjectID: b.ProjectID, Day: b.Day, SlotIndex: b.SlotIndex})
	}
	return t
}

// ApplyTemplate builds a week from t, giving every block a fresh id from newID.
func ApplyTemplate(t Template, weekKey, startDate string, newID func() string) WeekData {
	w := WeekData{WeekKey: weekKey, StartDate: startDate, Blocks: make([]TimeBlock, 0, len(t.Blocks))}
	for _, b := range t.Blocks {
		w.Blocks = append(w.Blocks, TimeBlock{ID: newID(), ProjectID: b.ProjectID, Day: b.Day, SlotIndex: b.SlotIndex})
	}
	return w
}
