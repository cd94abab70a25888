package scrape

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/marmitar/busca-fuzzy/internal/htmlutil"
	"github.com/marmitar/busca-fuzzy/internal/model"
)

// cursoListURL is the catalog page listing every course and its variants.
var cursoListURL = "https://www.dac.unicamp.br/portal/catalogo-cursos"

// cursoHeaderPattern matches a course section header ("Curso 34G") and
// captures the numeric course code.
var cursoHeaderPattern = regexp.MustCompile(`^Curso ([0-9]+)G$`)

// semesterHeaderPattern matches a semester section header ("1o Semestre")
// and captures its 1-based index.
var semesterHeaderPattern = regexp.MustCompile(`^(\d+)[oº]? [Ss]emestre$`)

// CourseCatalog is the curso corpus's scraped output: a searchable,
// per-course preview (fuzzy-indexed) plus the fully expanded curriculum
// tree for every (code, variant) pair, looked up directly by the course-
// tree endpoint rather than through the fuzzy index.
type CourseCatalog struct {
	Previews []model.CoursePreview                 `json:"previews"`
	Trees    map[string]map[string]model.CourseTree `json:"trees"`
}

// CursoScraper is the reference curso plugin. It expects the catalog page
// to lay out one <h2 class="curso"> header per course ("Curso 34G")
// followed by a <div class="variantes"> body listing one <a> per variant
// (its text is the variant code, its href points to that variant's
// semester-by-semester page).
type CursoScraper struct{}

// CacheKey implements Scraper[CourseCatalog].
func (CursoScraper) CacheKey() string { return "curso" }

// Scrape implements Scraper[CourseCatalog].
func (c CursoScraper) Scrape(ctx context.Context, env *Env) (CourseCatalog, error) {
	doc, err := FetchDocument(ctx, env, cursoListURL)
	if err != nil {
		return CourseCatalog{}, err
	}

	sections, err := htmlutil.ParseSections(doc.Selection, "h2", func(header *goquery.Selection) *goquery.Selection {
		if !header.HasClass("curso") {
			return nil
		}
		body := header.NextFiltered("div.variantes")
		if body.Length() == 0 {
			return nil
		}
		return body
	})
	if err != nil {
		return CourseCatalog{}, fmt.Errorf("curso: %w", err)
	}

	catalog := CourseCatalog{Trees: make(map[string]map[string]model.CourseTree)}
	for header, body := range sections {
		m := cursoHeaderPattern.FindStringSubmatch(header)
		if m == nil {
			continue
		}
		code := m[1]

		name, err := htmlutil.GetText(body.Find(".nome").First(), "", false)
		if err != nil {
			return CourseCatalog{}, fmt.Errorf("curso %s: name: %w", code, err)
		}

		var variants []string
		links := make(map[string]string)
		body.Find("a.variante").Each(func(_ int, a *goquery.Selection) {
			variant := normalizeVariantCode(a.Text())
			if variant == "" {
				return
			}
			href, ok := a.Attr("href")
			if !ok {
				return
			}
			variants = append(variants, variant)
			links[variant] = href
		})

		catalog.Previews = append(catalog.Previews, model.CoursePreview{
			Code:     code,
			Name:     name,
			Variants: model.NewOrderedSet(variants),
		})

		trees := make(map[string]model.CourseTree, len(links))
		for variant, href := range links {
			tree, err := c.scrapeVariant(ctx, env, code, variant, href)
			if err != nil {
				return CourseCatalog{}, fmt.Errorf("curso %s/%s: %w", code, variant, err)
			}
			trees[variant] = tree
		}
		catalog.Trees[code] = trees
	}

	return catalog, nil
}

// scrapeVariant fetches one course variant's semester-by-semester page and
// extracts its required disciplines and free-elective credit count per
// semester. A semester with no discipline header found under it is left
// empty, rather than treated as a continuation of the previous semester
// (see DESIGN.md).
func (c CursoScraper) scrapeVariant(ctx context.Context, env *Env, code, variant, href string) (model.CourseTree, error) {
	doc, err := FetchDocument(ctx, env, href)
	if err != nil {
		return model.CourseTree{}, err
	}

	sections, err := htmlutil.ParseSections(doc.Selection, "h3", func(header *goquery.Selection) *goquery.Selection {
		body := header.NextFiltered("table.grade")
		if body.Length() == 0 {
			return nil
		}
		return body
	})
	if err != nil {
		return model.CourseTree{}, err
	}

	type indexed struct {
		idx      int
		semester model.Semester
	}
	var ordered []indexed
	for header, table := range sections {
		m := semesterHeaderPattern.FindStringSubmatch(header)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		var disciplines []model.DisciplineRef
		table.Find("tr.disciplina").Each(func(_ int, row *goquery.Selection) {
			code := row.Find(".codigo").Text()
			creditsText := row.Find(".creditos").Text()
			credits, _ := strconv.Atoi(creditsPattern.FindString(creditsText))
			disciplines = append(disciplines, model.DisciplineRef{Code: code, Credits: credits})
		})

		electives, err := htmlutil.ParseText(table.Find(".eletivas").First(), "", false, func(s string) (int, bool) {
			m := creditsPattern.FindString(s)
			if m == "" {
				return 0, true // electives row without a number: zero, not an error
			}
			n, err := strconv.Atoi(m)
			return n, err == nil
		})
		if err != nil {
			electives = 0
		}

		ordered = append(ordered, indexed{idx: idx, semester: model.Semester{Disciplines: disciplines, Electives: electives}})
	}

	maxIdx := 0
	for _, o := range ordered {
		if o.idx > maxIdx {
			maxIdx = o.idx
		}
	}
	semesters := make([]model.Semester, maxIdx)
	for _, o := range ordered {
		semesters[o.idx-1] = o.semester
	}
	for i := range semesters {
		if semesters[i].Disciplines == nil {
			semesters[i].Disciplines = []model.DisciplineRef{}
		}
	}

	return model.CourseTree{Code: code, Variant: variant, Semesters: semesters}, nil
}

// normalizeVariantCode collapses whitespace from a variant link's text into
// its bare variant code (e.g. "AA").
func normalizeVariantCode(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
