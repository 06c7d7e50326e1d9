package catalog

import (
	"github.com/apresmonbac/orientation/internal/models"
	"github.com/apresmonbac/orientation/internal/utils"
)

// Offer is one school that teaches a filière.
type Offer struct {
	UniversityID string
	SchoolID     string
	SchoolName   string
}

// ProgramMatches reports whether a school program and a filière name denote the
// same field once accents, case and punctuation are ignored.
func ProgramMatches(program, filiereName string) bool {
	p := utils.NormalizeName(program)
	return p != "" && p == utils.NormalizeName(filiereName)
}

func buildOffers(universities []models.University, filieres []models.Filiere) map[string][]Offer {
	byName := make(map[string][]string, len(filieres)) // normalized name -> slugs
	for _, f := range filieres {
		n := utils.NormalizeName(f.Name)
		if n == "" {
			continue
		}
		byName[n] = append(byName[n], f.Slug)
	}

	out := make(map[string][]Offer, len(filieres))
	for _, u := range universities {
		for _, sc := range u.Schools {
			seen := map[string]bool{}
			for _, prog := range sc.Programs {
				for _, slug := range byName[utils.NormalizeName(prog)] {
					if seen[slug] {
						continue
					}
					seen[slug] = true
					out[slug] = append(out[slug], Offer{UniversityID: u.ID, SchoolID: sc.ID, SchoolName: sc.Name})
				}
			}
		}
	}
	return out
}

// Offers lists the schools teaching the filière, in catalog order.
func (s *Store) Offers(slug string) []Offer {
	return s.offersByFiliere[slug]
}

// UniversityIDs returns the universities offering the filière: those owning a
// matching school, then any listed statically in the filière entry.
func (s *Store) UniversityIDs(f models.Filiere) []string {
	ids := make([]string, 0, len(f.Universities))
	seen := map[string]bool{}
	for _, o := range s.offersByFiliere[f.Slug] {
		if !seen[o.UniversityID] {
			seen[o.UniversityID] = true
			ids = append(ids, o.UniversityID)
		}
	}
	for _, id := range f.Universities {
		if _, known := s.universityByID[id]; known && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
