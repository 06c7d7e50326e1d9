package catalog

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/apresmonbac/orientation/internal/models"
)

// Listing is a filtered page of catalog entries plus the facet values the
// client can offer in its selects.
type Listing[T any] struct {
	Items  []T                 `json:"items"`
	Total  int                 `json:"total"`
	Facets map[string][]string `json:"facets,omitempty"`
}

// deadlineSoonDays is the window in which a concours deadline is flagged.
const deadlineSoonDays = 30

// facetAll reports whether a select value means "no filter".
func facetAll(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "all", "tous", "toutes", "tous niveaux":
		return true
	}
	return false
}

func facetMatch(want, got string) bool {
	return facetAll(want) || strings.EqualFold(strings.TrimSpace(want), got)
}

func containsFold(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func distinct[T any](items []T, key func(T) string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, it := range items {
		k := key(it)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

type UniversityFilter struct {
	Q        string
	Type     string
	Location string
}

func (s *Store) Universities(f UniversityFilter) Listing[models.University] {
	items := make([]models.University, 0, len(s.data.Universities))
	for _, u := range s.data.Universities {
		if containsFold(f.Q, u.Name, u.Description) && facetMatch(f.Type, u.Type) && facetMatch(f.Location, u.Location) {
			items = append(items, u)
		}
	}
	return Listing[models.University]{
		Items: items,
		Total: len(items),
		Facets: map[string][]string{
			"type":     distinct(s.data.Universities, func(u models.University) string { return u.Type }),
			"location": distinct(s.data.Universities, func(u models.University) string { return u.Location }),
		},
	}
}

type FiliereFilter struct {
	Q        string
	Category string
}

// Filieres lists filières with their universities recomputed from school programs.
func (s *Store) Filieres(f FiliereFilter) Listing[models.Filiere] {
	items := make([]models.Filiere, 0, len(s.data.Filieres))
	for _, fi := range s.data.Filieres {
		if !containsFold(f.Q, fi.Name, fi.Description) || !facetMatch(f.Category, fi.Category) {
			continue
		}
		fi.Universities = s.UniversityIDs(fi)
		items = append(items, fi)
	}
	return Listing[models.Filiere]{
		Items: items,
		Total: len(items),
		Facets: map[string][]string{
			"category": distinct(s.data.Filieres, func(f models.Filiere) string { return f.Category }),
		},
	}
}

type SchoolRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UniversityOffer struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Slug     string      `json:"slug"`
	Location string      `json:"location"`
	Type     string      `json:"type"`
	Schools  []SchoolRef `json:"schools"`
}

type FiliereDetail struct {
	models.Filiere
	OfferedBy []UniversityOffer `json:"offeredBy"`
}

func (s *Store) FiliereDetail(slug string) (FiliereDetail, bool) {
	f, ok := s.Filiere(slug)
	if !ok {
		return FiliereDetail{}, false
	}
	f.Universities = s.UniversityIDs(f)

	schools := map[string][]SchoolRef{}
	for _, o := range s.Offers(slug) {
		schools[o.UniversityID] = append(schools[o.UniversityID], SchoolRef{ID: o.SchoolID, Name: o.SchoolName})
	}

	offered := make([]UniversityOffer, 0, len(f.Universities))
	for _, id := range f.Universities {
		u, ok := s.University(id)
		if !ok {
			continue
		}
		refs := schools[id]
		if refs == nil {
			refs = []SchoolRef{}
		}
		offered = append(offered, UniversityOffer{
			ID:       u.ID,
			Name:     u.Name,
			Slug:     u.Slug,
			Location: u.Location,
			Type:     u.Type,
			Schools:  refs,
		})
	}
	return FiliereDetail{Filiere: f, OfferedBy: offered}, true
}

type ConcoursItem struct {
	models.Concours
	DeadlineSoon bool `json:"deadlineSoon"`
}

type ConcoursFilter struct {
	Q      string
	Domain string
	Now    time.Time
}

func (s *Store) Concours(f ConcoursFilter) Listing[ConcoursItem] {
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	items := make([]ConcoursItem, 0, len(s.data.Concours))
	for _, c := range s.data.Concours {
		if containsFold(f.Q, c.Title, c.Institution) && facetMatch(f.Domain, c.Domain) {
			items = append(items, ConcoursItem{Concours: c, DeadlineSoon: DeadlineSoon(c.Deadline, now)})
		}
	}
	return Listing[ConcoursItem]{
		Items: items,
		Total: len(items),
		Facets: map[string][]string{
			"domain": distinct(s.data.Concours, func(c models.Concours) string { return c.Domain }),
		},
	}
}

// DeadlineSoon reports whether a YYYY-MM-DD deadline falls within the next
// 30 days, counting partial days as whole ones. Past deadlines are not soon.
func DeadlineSoon(deadline string, now time.Time) bool {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(deadline))
	if err != nil {
		return false
	}
	days := math.Ceil(d.Sub(now).Hours() / 24)
	return days > 0 && days <= deadlineSoonDays
}

type StageFilter struct {
	Q      string
	Domain string
	Type   string
}

func (s *Store) Stages(f StageFilter) Listing[models.Posting] {
	items := make([]models.Posting, 0, len(s.data.Stages))
	for _, p := range s.data.Stages {
		if containsFold(f.Q, p.Title, p.Company, p.Location) && facetMatch(f.Domain, p.Domain) && facetMatch(f.Type, p.Type) {
			items = append(items, p)
		}
	}
	return Listing[models.Posting]{
		Items: items,
		Total: len(items),
		Facets: map[string][]string{
			"domain": distinct(s.data.Stages, func(p models.Posting) string { return p.Domain }),
			"type":   distinct(s.data.Stages, func(p models.Posting) string { return p.Type }),
		},
	}
}

type FormationFilter struct {
	Q        string
	Category string
	Level    string
}

func (s *Store) Formations(f FormationFilter) Listing[models.Formation] {
	items := make([]models.Formation, 0, len(s.data.Formations))
	for _, fo := range s.data.Formations {
		if containsFold(f.Q, fo.Title, fo.Instructor, fo.Category) && facetMatch(f.Category, fo.Category) && facetMatch(f.Level, fo.Level) {
			items = append(items, fo)
		}
	}
	return Listing[models.Formation]{
		Items: items,
		Total: len(items),
		Facets: map[string][]string{
			"category": distinct(s.data.Formations, func(f models.Formation) string { return f.Category }),
			"level":    distinct(s.data.Formations, func(f models.Formation) string { return f.Level }),
		},
	}
}

type ConseilFilter struct {
	Q        string
	Category string
}

func (s *Store) Conseils(f ConseilFilter) Listing[models.Conseil] {
	items := make([]models.Conseil, 0, len(s.data.Conseils))
	for _, c := range s.data.Conseils {
		fields := append([]string{c.Title, c.Content}, c.Tags...)
		if containsFold(f.Q, fields...) && facetMatch(f.Category, c.Category) {
			items = append(items, c)
		}
	}
	return Listing[models.Conseil]{
		Items: items,
		Total: len(items),
		Facets: map[string][]string{
			"category": distinct(s.data.Conseils, func(c models.Conseil) string { return c.Category }),
		},
	}
}
