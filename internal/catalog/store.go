package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/apresmonbac/orientation/internal/models"
)

//go:embed data/*.json
var defaultFS embed.FS

const (
	universitiesFile = "universities.json"
	filieresFile     = "filieres.json"
	concoursFile     = "concours.json"
	stagesFile       = "stages.json"
	formationsFile   = "formations.json"
	conseilsFile     = "conseils.json"
)

// Data is the raw content of the catalog files.
type Data struct {
	Universities []models.University
	Filieres     []models.Filiere
	Concours     []models.Concours
	Stages       []models.Posting
	Formations   []models.Formation
	Conseils     []models.Conseil
}

// Store is an immutable in-memory catalog. Safe for concurrent reads.
type Store struct {
	data Data

	universityByID  map[string]int
	filiereBySlug   map[string]int
	stageByID       map[string]int
	offersByFiliere map[string][]Offer
}

// Load reads each catalog file from dir and falls back to the embedded copy
// when dir is empty or the file is missing there. Malformed JSON is an error.
func Load(dir string) (*Store, error) {
	var d Data
	files := []struct {
		name string
		dst  any
	}{
		{universitiesFile, &d.Universities},
		{filieresFile, &d.Filieres},
		{concoursFile, &d.Concours},
		{stagesFile, &d.Stages},
		{formationsFile, &d.Formations},
		{conseilsFile, &d.Conseils},
	}

	for _, f := range files {
		raw, err := readCatalogFile(dir, f.name)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.name, err)
		}
	}
	return New(d), nil
}

func readCatalogFile(dir, name string) ([]byte, error) {
	if dir != "" {
		raw, err := fs.ReadFile(os.DirFS(dir), name)
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
	raw, err := defaultFS.ReadFile(path.Join("data", name))
	if err != nil {
		return nil, fmt.Errorf("read embedded %s: %w", name, err)
	}
	return raw, nil
}

// New indexes d. Later duplicates of an id or slug are ignored.
func New(d Data) *Store {
	s := &Store{
		data:           d,
		universityByID: make(map[string]int, len(d.Universities)),
		filiereBySlug:  make(map[string]int, len(d.Filieres)),
		stageByID:      make(map[string]int, len(d.Stages)),
	}
	for i, u := range d.Universities {
		if _, ok := s.universityByID[u.ID]; !ok {
			s.universityByID[u.ID] = i
		}
	}
	for i, f := range d.Filieres {
		if _, ok := s.filiereBySlug[f.Slug]; !ok {
			s.filiereBySlug[f.Slug] = i
		}
	}
	for i, p := range d.Stages {
		if _, ok := s.stageByID[p.ID]; !ok {
			s.stageByID[p.ID] = i
		}
	}
	s.offersByFiliere = buildOffers(d.Universities, d.Filieres)
	return s
}

// University finds a university by id, or by slug as the site links used both.
func (s *Store) University(idOrSlug string) (models.University, bool) {
	if i, ok := s.universityByID[idOrSlug]; ok {
		return s.data.Universities[i], true
	}
	for _, u := range s.data.Universities {
		if u.Slug == idOrSlug {
			return u, true
		}
	}
	return models.University{}, false
}

func (s *Store) Filiere(slug string) (models.Filiere, bool) {
	i, ok := s.filiereBySlug[slug]
	if !ok {
		return models.Filiere{}, false
	}
	return s.data.Filieres[i], true
}

func (s *Store) Posting(id string) (models.Posting, bool) {
	i, ok := s.stageByID[id]
	if !ok {
		return models.Posting{}, false
	}
	return s.data.Stages[i], true
}

func (s *Store) Counts() map[string]int {
	return map[string]int{
		"universities": len(s.data.Universities),
		"filieres":     len(s.data.Filieres),
		"concours":     len(s.data.Concours),
		"stages":       len(s.data.Stages),
		"formations":   len(s.data.Formations),
		"conseils":     len(s.data.Conseils),
	}
}
