package services

import (
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/apresmonbac/orientation/internal/models"
	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// MaxAttachmentSize is the upper bound for the application letter PDF.
const MaxAttachmentSize = 5 << 20

const pdfContentType = "application/pdf"

// ApplicationForm is the submitted internship application, minus the file.
type ApplicationForm struct {
	StageID          string `form:"-" validate:"required"`
	Nom              string `form:"nom" validate:"required,min=2"`
	Prenoms          string `form:"prenoms" validate:"required,min=2"`
	Sexe             string `form:"sexe" validate:"required,oneof=masculin feminin"`
	Email            string `form:"email" validate:"required,email"`
	Telephone        string `form:"telephone" validate:"required,min=10"`
	Ecole            string `form:"ecole" validate:"required,min=2"`
	Universite       string `form:"universite" validate:"omitempty,max=200"`
	Filiere          string `form:"filiere" validate:"required,min=2"`
	AnneeEtude       string `form:"annee_etude" validate:"required,min=1"`
	TempsStage       string `form:"temps_stage" validate:"required,min=1"`
	DateDebut        string `form:"date_debut" validate:"required,datetime=2006-01-02"`
	LettreMotivation string `form:"lettre_motivation" validate:"required,min=50"`
}

// Attachment is the uploaded letter. ContentType is the one observed by the
// transport (declared and sniffed).
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

var fieldMessages = map[string]string{
	"stage_id":          "Le stage est requis",
	"nom":               "Le nom est requis",
	"prenoms":           "Les prénoms sont requis",
	"sexe":              "Le sexe est requis",
	"email":             "Email invalide",
	"telephone":         "Numéro de téléphone requis",
	"ecole":             "L'école est requise",
	"universite":        "L'université est trop longue",
	"filiere":           "La filière est requise",
	"annee_etude":       "L'année d'étude est requise",
	"temps_stage":       "La durée du stage est requise",
	"date_debut":        "La date de début est requise",
	"lettre_motivation": "La lettre de motivation doit contenir au moins 50 caractères",
}

const attachmentField = "lettre_demande"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			if f.Name == "StageID" {
				return "stage_id"
			}
			return f.Name
		}
		return name
	})
	return v
}

func (f *ApplicationForm) trim() {
	for _, p := range []*string{
		&f.StageID, &f.Nom, &f.Prenoms, &f.Sexe, &f.Email, &f.Telephone, &f.Ecole,
		&f.Universite, &f.Filiere, &f.AnneeEtude, &f.TempsStage, &f.DateDebut,
	} {
		*p = strings.TrimSpace(*p)
	}
	f.Sexe = strings.ToLower(f.Sexe)
	f.LettreMotivation = strings.TrimSpace(f.LettreMotivation)
}

// validateSubmission returns field -> message for every violated constraint.
func validateSubmission(f ApplicationForm, a Attachment) map[string]string {
	fields := map[string]string{}

	if err := validate.Struct(f); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				name := fe.Field()
				if _, dup := fields[name]; dup {
					continue
				}
				msg, ok := fieldMessages[name]
				if !ok {
					msg = "Valeur invalide"
				}
				if name == "date_debut" && fe.Tag() == "datetime" {
					msg = "La date de début doit être au format AAAA-MM-JJ"
				}
				fields[name] = msg
			}
		} else {
			fields["form"] = err.Error()
		}
	}

	switch {
	case a.Reader == nil:
		fields[attachmentField] = "La lettre de demande (PDF) est requise"
	case a.ContentType != pdfContentType:
		fields[attachmentField] = "Seuls les fichiers PDF sont acceptés"
	case a.Size <= 0:
		fields[attachmentField] = "Le fichier est vide"
	case a.Size > MaxAttachmentSize:
		fields[attachmentField] = "Le fichier ne doit pas dépasser 5MB"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// toModel maps a validated form to a new record without id or attachment.
func (f ApplicationForm) toModel() *models.Application {
	start, _ := time.Parse(time.DateOnly, f.DateDebut)

	a := &models.Application{
		StageID:          f.StageID,
		Nom:              f.Nom,
		Prenoms:          f.Prenoms,
		Sexe:             models.Sexe(f.Sexe),
		Email:            f.Email,
		Telephone:        f.Telephone,
		Ecole:            f.Ecole,
		Filiere:          f.Filiere,
		AnneeEtude:       f.AnneeEtude,
		TempsStage:       f.TempsStage,
		DateDebut:        datatypes.Date(start),
		LettreMotivation: f.LettreMotivation,
	}
	if f.Universite != "" {
		u := f.Universite
		a.Universite = &u
	}
	return a
}
