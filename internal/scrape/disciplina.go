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

// disciplinaListURL is the catalog page listing every discipline. It is a
// package variable (not a const) so tests can point it at a local fixture
// server.
var disciplinaListURL = "https://www.dac.unicamp.br/portal/caderno-de-horarios/disciplinas"

// creditsPattern extracts the numeric credit load from a line like
// "Créditos: 6".
var creditsPattern = regexp.MustCompile(`(\d+)`)

// DisciplinaScraper is the reference disciplina plugin: it expects the
// catalog page to lay out one <h2> header per discipline code ("MC102")
// followed by a <div class="ementa"> body containing the display name, the
// credit count, and the list of disciplines for which this one is a
// prerequisite.
//
// The page's exact markup is an external collaborator outside this repo's
// control; this plugin documents one concrete, self-consistent shape
// rather than re-deriving the live site's layout.
type DisciplinaScraper struct{}

// CacheKey implements Scraper[[]model.Discipline].
func (DisciplinaScraper) CacheKey() string { return "disciplina" }

// Scrape implements Scraper[[]model.Discipline]: fetch the catalog page,
// extract one discipline per header section, then invert the "requires"
// relation into each discipline's ReqBy set.
func (d DisciplinaScraper) Scrape(ctx context.Context, env *Env) ([]model.Discipline, error) {
	doc, err := FetchDocument(ctx, env, disciplinaListURL)
	if err != nil {
		return nil, err
	}

	sections, err := htmlutil.ParseSections(doc.Selection, "h2", func(header *goquery.Selection) *goquery.Selection {
		body := header.NextFiltered("div.ementa")
		if body.Length() == 0 {
			return nil
		}
		return body
	})
	if err != nil {
		return nil, fmt.Errorf("disciplina: %w", err)
	}

	type parsed struct {
		code     string
		name     string
		credits  int
		requires []string
	}

	records := make([]parsed, 0, len(sections))
	for code, body := range sections {
		name, err := htmlutil.GetText(body.Find(".nome").First(), "", false)
		if err != nil {
			return nil, fmt.Errorf("disciplina %s: name: %w", code, err)
		}

		credits, err := htmlutil.ParseText(body.Find(".creditos").First(), "", false, func(s string) (int, bool) {
			m := creditsPattern.FindString(s)
			if m == "" {
				return 0, false
			}
			n, err := strconv.Atoi(m)
			return n, err == nil
		})
		if err != nil {
			return nil, fmt.Errorf("disciplina %s: credits: %w", code, err)
		}

		var requires []string
		body.Find(".requisitos .codigo").Each(func(_ int, s *goquery.Selection) {
			requires = append(requires, s.Text())
		})

		records = append(records, parsed{code: code, name: name, credits: credits, requires: requires})
	}

	reqBy := make(map[string][]string)
	for _, r := range records {
		for _, req := range r.requires {
			reqBy[req] = append(reqBy[req], r.code)
		}
	}

	out := make([]model.Discipline, 0, len(records))
	for _, r := range records {
		out = append(out, model.Discipline{
			Code:    r.code,
			Name:    r.name,
			Credits: r.credits,
			ReqBy:   model.NewOrderedSet(reqBy[r.code]),
		})
	}
	return out, nil
}
