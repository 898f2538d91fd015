package ingest

// nteeCategories maps the leading NTEE character to its top-level category
// name, per the National Taxonomy of Exempt Entities.
var nteeCategories = map[string]string{
	"A": "Arts, Culture & Humanities",
	"B": "Education",
	"C": "Environment",
	"D": "Animal-Related",
	"E": "Health Care",
	"F": "Mental Health & Crisis Intervention",
	"G": "Diseases, Disorders & Medical Disciplines",
	"H": "Medical Research",
	"I": "Crime & Legal-Related",
	"J": "Employment",
	"K": "Food, Agriculture & Nutrition",
	"L": "Housing & Shelter",
	"M": "Public Safety, Disaster Preparedness & Relief",
	"N": "Recreation & Sports",
	"O": "Youth Development",
	"P": "Human Services",
	"Q": "International, Foreign Affairs & National Security",
	"R": "Civil Rights, Social Action & Advocacy",
	"S": "Community Improvement & Capacity Building",
	"T": "Philanthropy, Voluntarism & Grantmaking Foundations",
	"U": "Science & Technology",
	"V": "Social Science",
	"W": "Public & Societal Benefit",
	"X": "Religion-Related",
	"Y": "Mutual & Membership Benefit",
	"Z": "Unknown",
}

// CategoryName returns the category name for a top-level NTEE category code
// ("A" through "Z"). Unrecognized codes return "Unknown".
func CategoryName(category string) string {
	if name, ok := nteeCategories[category]; ok {
		return name
	}
	return "Unknown"
}

// Categories returns all top-level NTEE category codes with their names,
// in code order.
func Categories() []struct{ Code, Name string } {
	out := make([]struct{ Code, Name string }, 0, len(nteeCategories))
	for c := 'A'; c <= 'Z'; c++ {
		code := string(c)
		out = append(out, struct{ Code, Name string }{Code: code, Name: nteeCategories[code]})
	}
	return out
}
