// Package aggregate turns flat nomination records into per-movie figures:
// a count per known category, a total nomination count, and the best
// picture win flag.
//
// The set of known categories is configuration. An embedded catalog is
// used unless a categories file is supplied:
//
//	cats, err := aggregate.LoadCategories("categories.yaml")
//	m := aggregate.Build(noms, cats)
//	counts, ok := m.CategoryCounts("Gladiator")
//	total := m.NominationCounts()[movie.Key("Gladiator")]
package aggregate
