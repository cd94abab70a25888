package model

// Discipline is one record of the disciplina corpus: a single university
// course-unit (e.g. "MC102"), its credit load, display name, and the set of
// disciplines that require it as a prerequisite.
type Discipline struct {
	Code    string         `json:"code"`
	Name    string         `json:"name"`
	Credits int            `json:"credits"`
	ReqBy   OrderedSet[string] `json:"reqBy"`
}

// DisciplineRef is the lightweight reference to a Discipline embedded in a
// Semester: just enough to render a course tree without re-fetching the full
// Discipline record.
type DisciplineRef struct {
	Code    string `json:"code"`
	Credits int    `json:"credits"`
}

// Semester is one term of a CourseTree: a list of required disciplines plus
// a count of free elective credit-units for that term.
type Semester struct {
	Disciplines []DisciplineRef `json:"disciplines"`
	Electives   int             `json:"electives"`
}

// CoursePreview is one record of the curso corpus: the summary returned by
// GET /api/curso/:code, listing the course's variants without expanding any
// of them into a full semester tree.
type CoursePreview struct {
	Code     string             `json:"code"`
	Name     string             `json:"name"`
	Variants OrderedSet[string] `json:"variants"`
}

// CourseTree is the fully expanded curriculum for one course variant,
// returned by GET /api/curso/:code/:variant.
type CourseTree struct {
	Code      string     `json:"code"`
	Variant   string     `json:"variant"`
	Semesters []Semester `json:"semesters"`
}
