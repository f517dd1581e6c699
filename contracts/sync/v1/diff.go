package v1

// Diff compares two member lists as sets. removed = prior - next and
// added = next - prior, each in first-seen order without duplicates.
func Diff(prior []string, next []string) (removed []string, added []string) {
	priorSet := make(map[string]struct{}, len(prior))
	for _, item := range prior {
		priorSet[item] = struct{}{}
	}
	nextSet := make(map[string]struct{}, len(next))
	for _, item := range next {
		nextSet[item] = struct{}{}
	}

	removed = []string{}
	seen := make(map[string]struct{}, len(prior))
	for _, item := range prior {
		if _, ok := nextSet[item]; ok {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		removed = append(removed, item)
	}

	added = []string{}
	seen = make(map[string]struct{}, len(next))
	for _, item := range next {
		if _, ok := priorSet[item]; ok {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		added = append(added, item)
	}
	return removed, added
}

// DiffRefs is Diff over project references.
func DiffRefs(prior []ProjectRef, next []ProjectRef) (removed []ProjectRef, added []ProjectRef) {
	removedKeys, addedKeys := Diff(RefStrings(prior), RefStrings(next))
	index := make(map[string]ProjectRef, len(prior)+len(next))
	for _, ref := range prior {
		index[ref.String()] = ref
	}
	for _, ref := range next {
		index[ref.String()] = ref
	}
	removed = make([]ProjectRef, 0, len(removedKeys))
	for _, key := range removedKeys {
		removed = append(removed, index[key])
	}
	added = make([]ProjectRef, 0, len(addedKeys))
	for _, key := range addedKeys {
		added = append(added, index[key])
	}
	return removed, added
}
