package store

// orderCache hands out per-parent positions. It is keyed by the store's
// epoch: any data change invalidates it, a cache hit increments in place so
// that N calls within one epoch return N distinct ascending values starting
// at the true max+1 even though nothing has been inserted in between. Each
// store owns its caches; nothing is process-global.
type orderCache struct {
	epoch int64
	next  map[string]int
}

func (c *orderCache) nextFor(parent string, epoch int64, rebuild func() map[string]int) int {
	if c.next == nil || c.epoch != epoch {
		c.next = rebuild()
		c.epoch = epoch
	}
	v := c.next[parent]
	c.next[parent] = v + 1
	return v
}

// NextTaskOrder allocates the next position for a task under projectID
// (empty for the no-project scope). Unseen parents start at 0.
func (s *Store) NextTaskOrder(projectID string) int {
	return s.taskOrders.nextFor(projectID, s.epoch, func() map[string]int {
		next := make(map[string]int)
		for _, t := range s.state.Tasks {
			if t.IsDeleted() || t.PurgedAt != "" || t.OrderNum == nil {
				continue
			}
			if *t.OrderNum >= next[t.ProjectID] {
				next[t.ProjectID] = *t.OrderNum + 1
			}
		}
		return next
	})
}

// NextProjectOrder allocates the next position for a project under areaID.
func (s *Store) NextProjectOrder(areaID string) int {
	return s.projectOrders.nextFor(areaID, s.epoch, func() map[string]int {
		next := make(map[string]int)
		for _, p := range s.state.Projects {
			if p.IsDeleted() || p.PurgedAt != "" || p.Order == nil {
				continue
			}
			if *p.Order >= next[p.AreaID] {
				next[p.AreaID] = *p.Order + 1
			}
		}
		return next
	})
}

// nextSectionOrder is a plain scan; section reordering is rare enough that
// the epoch cache is not worth carrying for it.
func (s *Store) nextSectionOrder(projectID string) int {
	next := 0
	for _, sec := range s.state.Sections {
		if sec.IsDeleted() || sec.PurgedAt != "" || sec.ProjectID != projectID {
			continue
		}
		if sec.Order >= next {
			next = sec.Order + 1
		}
	}
	return next
}

func orderPtr(v int) *int { return &v }
