package models

import (
	"time"

	"gorm.io/datatypes"
)

type Sexe string

const (
	SexeMasculin Sexe = "masculin"
	SexeFeminin  Sexe = "feminin"
)

// Application is one candidate's submission for one internship posting.
type Application struct {
	ID      string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	StageID string `gorm:"column:stage_id;type:text;index" json:"stage_id"`

	Nom       string `gorm:"column:nom;type:text" json:"nom"`
	Prenoms   string `gorm:"column:prenoms;type:text" json:"prenoms"`
	Sexe      Sexe   `gorm:"column:sexe;type:text" json:"sexe"`
	Email     string `gorm:"column:email;type:text" json:"email"`
	Telephone string `gorm:"column:telephone;type:text" json:"telephone"`

	Ecole      string  `gorm:"column:ecole;type:text" json:"ecole"`
	Universite *string `gorm:"column:universite;type:text" json:"universite,omitempty"`
	Filiere    string  `gorm:"column:filiere;type:text" json:"filiere"`
	AnneeEtude string  `gorm:"column:annee_etude;type:text" json:"annee_etude"`

	TempsStage       string         `gorm:"column:temps_stage;type:text" json:"temps_stage"`
	DateDebut        datatypes.Date `gorm:"column:date_debut" json:"date_debut"`
	LettreMotivation string         `gorm:"column:lettre_motivation;type:text" json:"lettre_motivation"`

	// LettreDemandeURL is the object key of the uploaded PDF, nil until the upload is linked.
	LettreDemandeURL *string `gorm:"column:lettre_demande_url;type:text" json:"lettre_demande_url"`

	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (Application) TableName() string { return "applications" }

// StartDate returns date_debut as a time.Time.
func (a Application) StartDate() time.Time { return time.Time(a.DateDebut) }
