package store

// SaveProjects replaces the project list and writes the whole record.
// Blocks that reference removed projects are left in place.
func (s *Store) SaveProjects(projects []Project) error {
	next := make([]Project, len(projects))
	for i, p := range projects {
		next[i] = p.Clone()
	}
	err := s.state.update(func(d *AppData) { d.Projects = next })
	if err != nil {
		s.log.Errorw("save projects failed", "count", len(projects), "error", err)
	}
	return err
}
