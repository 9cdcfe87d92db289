package template

// AllFields merges fields across stages into one descriptor per logical name,
// in first-seen order. Type, options, and id come from the first occurrence;
// required is escalated when any later occurrence demands it.
func AllFields(stages []Stage) []Field {
	index := make(map[string]int)
	unique := make([]Field, 0)

	for _, stage := range stages {
		for _, f := range stage.Fields {
			i, seen := index[f.Name]
			if !seen {
				f.Options = append([]string(nil), f.Options...)
				index[f.Name] = len(unique)
				unique = append(unique, f)
				continue
			}

			if f.Required && !unique[i].Required {
				unique[i].Required = true
				unique[i].Placeholder = Placeholder(unique[i].Label, true)
			}
		}
	}

	return unique
}

// canonical returns the deduplicated field that shares name, if any.
func canonical(name string, unique []Field) (Field, bool) {
	for _, f := range unique {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
