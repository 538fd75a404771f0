// Package repository defines the portal content store interface and errors.
package repository

// StoreOption applies a configuration option to the MemStore.
type StoreOption func(*MemStore)

// WithSeededBadges preloads conflict badge snapshots, mainly for tests.
func WithSeededBadges(badges map[string]map[string]bool) StoreOption {
	return func(s *MemStore) {
		for runID, set := range badges {
			copied := make(map[string]bool, len(set))
			for id, v := range set {
				copied[id] = v
			}
			s.badges[runID] = copied
		}
	}
}
