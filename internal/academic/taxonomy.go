package academic

// Label is a canonical taxonomy value with the phrases that imply it.
type Label struct {
	Name    string
	Aliases []string
}

// Taxonomy is an ordered, read-only set of labels.
type Taxonomy struct {
	labels []Label
}

// NewTaxonomy copies labels so callers cannot mutate the taxonomy afterwards.
func NewTaxonomy(labels ...Label) Taxonomy {
	out := make([]Label, len(labels))
	for i, l := range labels {
		out[i] = Label{Name: l.Name, Aliases: append([]string(nil), l.Aliases...)}
	}
	return Taxonomy{labels: out}
}

func (t Taxonomy) Labels() []Label {
	return t.labels
}

// Names lists label names in taxonomy order.
func (t Taxonomy) Names() []string {
	out := make([]string, len(t.labels))
	for i, l := range t.labels {
		out[i] = l.Name
	}
	return out
}

// Majors is the study program taxonomy.
var Majors = NewTaxonomy(
	Label{Name: "Teknik Informatika", Aliases: []string{"teknik informatika", "informatika", "ilmu komputer", "computer science"}},
	Label{Name: "Sistem Informasi", Aliases: []string{"sistem informasi", "information systems"}},
	Label{Name: "Teknik Elektro", Aliases: []string{"teknik elektro", "elektro", "electrical engineering"}},
	Label{Name: "Teknik Mesin", Aliases: []string{"teknik mesin", "mesin", "mechanical engineering"}},
	Label{Name: "Teknik Industri", Aliases: []string{"teknik industri", "industrial engineering"}},
	Label{Name: "Manajemen", Aliases: []string{"manajemen", "management"}},
	Label{Name: "Akuntansi", Aliases: []string{"akuntansi", "accounting"}},
	Label{Name: "Hukum", Aliases: []string{"hukum", "law"}},
	Label{Name: "Psikologi", Aliases: []string{"psikologi", "psychology"}},
)

// Careers is the career target taxonomy.
var Careers = NewTaxonomy(
	Label{Name: "Software Engineer", Aliases: []string{"software engineer", "backend developer", "frontend developer", "full stack"}},
	Label{Name: "Data Scientist", Aliases: []string{"data scientist", "machine learning", "data analyst", "ai engineer"}},
	Label{Name: "UI/UX Designer", Aliases: []string{"ui ux", "ux designer", "product designer", "user experience"}},
	Label{Name: "Cybersecurity", Aliases: []string{"cybersecurity", "security analyst", "penetration tester", "infosec"}},
	Label{Name: "Product Manager", Aliases: []string{"product manager", "product management"}},
)
