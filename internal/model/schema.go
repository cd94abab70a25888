package model

import (
	"strings"

	"github.com/marmitar/busca-fuzzy/internal/searchcache"
)

// DisciplineSchema describes the disciplina corpus: code is a short
// identifier, name is free text, reqBy is hidden (it is return-shaped, not
// searchable text).
func DisciplineSchema() searchcache.Schema[Discipline] {
	return searchcache.Schema[Discipline]{
		Properties: []searchcache.Property[Discipline]{
			{
				Name:       "code",
				Get:        func(d Discipline) string { return d.Code },
				Weight:     1,
				Identifier: true,
			},
			{
				Name:   "name",
				Get:    func(d Discipline) string { return d.Name },
				Weight: 2,
			},
			{
				Name:   "reqBy",
				Get:    func(d Discipline) string { return strings.Join(d.ReqBy.Values(), " ") },
				Weight: 0,
				Hidden: true,
			},
		},
		Scaling:      1.0,
		ContentLabel: "disciplina",
	}
}

// CourseSchema describes the curso corpus: code is a short identifier, name
// is free text, variants are hidden (they are structural, not searchable).
func CourseSchema() searchcache.Schema[CoursePreview] {
	return searchcache.Schema[CoursePreview]{
		Properties: []searchcache.Property[CoursePreview]{
			{
				Name:       "code",
				Get:        func(c CoursePreview) string { return c.Code },
				Weight:     1,
				Identifier: true,
			},
			{
				Name:   "name",
				Get:    func(c CoursePreview) string { return c.Name },
				Weight: 2,
			},
			{
				Name:   "variants",
				Get:    func(c CoursePreview) string { return strings.Join(c.Variants.Values(), " ") },
				Weight: 0,
				Hidden: true,
			},
		},
		Scaling:      1.0,
		ContentLabel: "curso",
	}
}
