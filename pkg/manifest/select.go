package manifest

// SelectByName filters a package's payloads to those whose base name appears
// in wanted, preserving wanted's order so retrieval and extraction are
// deterministic. Names with no match are silently omitted; the caller
// decides whether a missing artifact is an error.
func SelectByName(pkg Package, wanted []string) []Payload {
	byName := make(map[string]Payload, len(pkg.Payloads))
	for _, p := range pkg.Payloads {
		name := p.BaseName()
		if _, ok := byName[name]; !ok {
			byName[name] = p
		}
	}

	var out []Payload
	for _, name := range wanted {
		if p, ok := byName[name]; ok {
			out = append(out, p)
		}
	}
	return out
}

// SelectByBaseNameSet returns the payloads whose base name is in the given
// set, order-independent and de-duplicated by base name. Used for cabinet
// files referenced from inside an already-downloaded installer archive.
func SelectByBaseNameSet(pkg Package, names map[string]struct{}) []Payload {
	seen := make(map[string]struct{}, len(names))
	var out []Payload
	for _, p := range pkg.Payloads {
		name := p.BaseName()
		if _, wanted := names[name]; !wanted {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, p)
	}
	return out
}

// SelectExtensionPayloads returns the first payload of each manifest package
// whose id appears in ids, ordered to match ids. Packages without payloads
// are skipped.
func SelectExtensionPayloads(m *Manifest, ids []string) []Payload {
	byID := make(map[string]Package, len(ids))
	for _, p := range m.Packages {
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = p
		}
	}

	var out []Payload
	for _, id := range ids {
		pkg, ok := byID[id]
		if !ok || len(pkg.Payloads) == 0 {
			continue
		}
		out = append(out, pkg.Payloads[0])
	}
	return out
}
