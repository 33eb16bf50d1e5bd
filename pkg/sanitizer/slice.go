package sanitizer

// NormalizeStringSlice applies normalizer to every item, dropping empty
// results and later duplicates. Order of first occurrence is preserved.
func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := normalizer(item)

		if normalized == "" {
			continue
		}

		if seen[normalized] {
			continue
		}

		seen[normalized] = true
		result = append(result, normalized)
	}

	return result
}

func NormalizeSlots(slots []string) []string {
	return NormalizeStringSlice(slots, NormalizeSlot)
}
