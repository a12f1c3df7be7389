package message

// Facet derivation for cascading filter controls. Each function is a pure
// distinct-projection over an archive slice; values keep their first-seen
// archive order.

// Members returns the distinct member values of the archive.
func Members(archive []Message) []string {
	return distinct(archive, func(m Message) string { return m.Member })
}

// Albums returns the distinct album values, optionally narrowed to one
// member. An empty member matches everything.
func Albums(archive []Message, member string) []string {
	return distinct(archive, func(m Message) string {
		if member != "" && m.Member != member {
			return ""
		}
		return m.Album
	})
}

// Songs returns the distinct song values, optionally narrowed by member
// and album. Empty filters match everything.
func Songs(archive []Message, member, album string) []string {
	return distinct(archive, func(m Message) string {
		if member != "" && m.Member != member {
			return ""
		}
		if album != "" && m.Album != album {
			return ""
		}
		return m.Song
	})
}

func distinct(archive []Message, project func(Message) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range archive {
		v := project(m)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
