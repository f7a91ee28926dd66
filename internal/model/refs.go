package model

// IndexRef returns the position of key in refs, or -1.
func IndexRef(refs []FriendRef, key string) int {
	for i, r := range refs {
		if r.Key == key {
			return i
		}
	}
	return -1
}

// ContainsRef reports whether refs holds an entry for key.
func ContainsRef(refs []FriendRef, key string) bool {
	return IndexRef(refs, key) >= 0
}

// RemoveRef returns refs without any entry for key and whether one was removed.
func RemoveRef(refs []FriendRef, key string) ([]FriendRef, bool) {
	out := make([]FriendRef, 0, len(refs))
	removed := false
	for _, r := range refs {
		if r.Key == key {
			removed = true
			continue
		}
		out = append(out, r)
	}
	return out, removed
}

// dedupeRefs keeps the first entry per key and drops entries without a key.
func dedupeRefs(refs []FriendRef) ([]FriendRef, int) {
	seen := make(map[string]struct{}, len(refs))
	out := make([]FriendRef, 0, len(refs))
	for _, r := range refs {
		if r.Key == "" {
			continue
		}
		if _, ok := seen[r.Key]; ok {
			continue
		}
		seen[r.Key] = struct{}{}
		out = append(out, r)
	}
	return out, len(refs) - len(out)
}
