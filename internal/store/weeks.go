package store

// SaveWeek stores week, replacing the entry with the same week key in place
// or appending it when the key is new, then writes the whole record.
func (s *Store) SaveWeek(week WeekData) error {
	week = week.Clone()
	err := s.state.update(func(d *AppData) {
		for i := range d.Weeks {
			if d.Weeks[i].WeekKey == week.WeekKey {
				d.Weeks[i] = week
				return
			}
		}
		d.Weeks = append(d.Weeks, week)
	})
	if err != nil {
		s.log.Errorw("save week failed", "week_key", week.WeekKey, "error", err)
	}
	return err
}

// FindWeek returns the week stored under key.
func (d AppData) FindWeek(key string) (WeekData, bool) {
	for _, w := range d.Weeks {
		if w.WeekKey == key {
			return w, true
		}
	}
	return WeekData{}, false
}
