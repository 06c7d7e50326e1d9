package services

import (
	"bytes"
	"html/template"
	"time"

	"github.com/apresmonbac/orientation/internal/models"
)

// beninTime is West Africa Time, used for dates shown in e-mails.
var beninTime = time.FixedZone("WAT", 60*60)

const mailLayoutOpen = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`

var companyMail = template.Must(template.New("company").Parse(mailLayoutOpen + `
<h1 style="color: #e97316; border-bottom: 2px solid #e97316; padding-bottom: 10px;">Nouvelle candidature de stage</h1>
<h2 style="color: #333;">Informations sur le stage</h2>
<p><strong>Poste:</strong> {{.Posting.Title}}</p>
<p><strong>Entreprise:</strong> {{.Posting.Company}}</p>
<p><strong>Lieu:</strong> {{.Posting.Location}}</p>
<h2 style="color: #333;">Informations du candidat</h2>
<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
<p><strong>Nom:</strong> {{.App.Nom}}</p>
<p><strong>Prénoms:</strong> {{.App.Prenoms}}</p>
<p><strong>Sexe:</strong> {{.App.Sexe}}</p>
<p><strong>Email:</strong> <a href="mailto:{{.App.Email}}">{{.App.Email}}</a></p>
<p><strong>Téléphone:</strong> {{.App.Telephone}}</p>
</div>
<h2 style="color: #333;">Formation</h2>
<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
<p><strong>École:</strong> {{.App.Ecole}}</p>
{{with .Universite}}<p><strong>Université:</strong> {{.}}</p>{{end}}
<p><strong>Filière:</strong> {{.App.Filiere}}</p>
<p><strong>Année d'étude:</strong> {{.App.AnneeEtude}}</p>
</div>
<h2 style="color: #333;">Détails du stage demandé</h2>
<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
<p><strong>Durée souhaitée:</strong> {{.App.TempsStage}}</p>
<p><strong>Date de début:</strong> {{.StartDate}}</p>
</div>
<h2 style="color: #333;">Lettre de motivation</h2>
<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0; white-space: pre-wrap;">{{.App.LettreMotivation}}</div>
{{if .HasAttachment}}<p style="color: #666; font-style: italic;">Note: Le candidat a également joint sa lettre de demande de stage officielle en format PDF. Pour des raisons de sécurité, ce document n'est pas inclus directement dans cet email.</p>{{end}}
<div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd;">
<p style="color: #666; font-size: 14px;">Cette candidature a été envoyée via la plateforme Après Mon Bac le {{.SubmittedDate}} à {{.SubmittedTime}}.</p>
<p style="color: #666; font-size: 14px;">Pour répondre au candidat, utilisez directement son adresse email: {{.App.Email}}</p>
</div>
</div>`))

var candidateMail = template.Must(template.New("candidate").Parse(mailLayoutOpen + `
<h1 style="color: #e97316; border-bottom: 2px solid #e97316; padding-bottom: 10px;">Candidature envoyée avec succès !</h1>
<p>Bonjour {{.App.Prenoms}} {{.App.Nom}},</p>
<p>Nous avons bien reçu votre candidature pour le stage suivant :</p>
<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
<p><strong>Poste:</strong> {{.Posting.Title}}</p>
<p><strong>Entreprise:</strong> {{.Posting.Company}}</p>
<p><strong>Lieu:</strong> {{.Posting.Location}}</p>
<p><strong>Durée souhaitée:</strong> {{.App.TempsStage}}</p>
<p><strong>Date de début:</strong> {{.StartDate}}</p>
</div>
<p>Votre candidature a été transmise à l'entreprise. Ils vous contacteront directement si votre profil correspond à leurs attentes.</p>
<p style="margin-top: 30px;">Bonne chance pour votre recherche de stage !<br>L'équipe Après Mon Bac</p>
<div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd;">
<p style="color: #666; font-size: 14px;">Candidature envoyée le {{.SubmittedDate}} à {{.SubmittedTime}}.</p>
</div>
</div>`))

var adminMail = template.Must(template.New("admin").Parse(mailLayoutOpen + `
<h1 style="color: #e97316; border-bottom: 2px solid #e97316; padding-bottom: 10px;">Nouvelle candidature sur Après Mon Bac</h1>
<p>Une nouvelle candidature de stage vient d'être soumise sur la plateforme.</p>
<h2 style="color: #333;">Détails du candidat</h2>
<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
<p><strong>Nom:</strong> {{.App.Prenoms}} {{.App.Nom}}</p>
<p><strong>Email:</strong> {{.App.Email}}</p>
<p><strong>École:</strong> {{.App.Ecole}}</p>
<p><strong>Filière:</strong> {{.App.Filiere}}</p>
<p><strong>Année:</strong> {{.App.AnneeEtude}}</p>
</div>
<h2 style="color: #333;">Stage visé</h2>
<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
<p><strong>Poste:</strong> {{.Posting.Title}}</p>
<p><strong>Entreprise:</strong> {{.Posting.Company}}</p>
<p><strong>Lieu:</strong> {{.Posting.Location}}</p>
<p><strong>Email entreprise:</strong> {{.Posting.ContactEmail}}</p>
</div>
<div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd;">
<p style="color: #666; font-size: 14px;">Candidature reçue le {{.SubmittedDate}} à {{.SubmittedTime}}.</p>
</div>
</div>`))

type mailView struct {
	App           models.Application
	Posting       models.Posting
	Universite    string
	StartDate     string
	SubmittedDate string
	SubmittedTime string
	HasAttachment bool
}

func newMailView(app models.Application, posting models.Posting) mailView {
	v := mailView{
		App:           app,
		Posting:       posting,
		HasAttachment: app.LettreDemandeURL != nil && *app.LettreDemandeURL != "",
	}
	if app.Universite != nil {
		v.Universite = *app.Universite
	}
	if start := app.StartDate(); !start.IsZero() {
		v.StartDate = start.Format("02/01/2006")
	}
	created := app.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	created = created.In(beninTime)
	v.SubmittedDate = created.Format("02/01/2006")
	v.SubmittedTime = created.Format("15:04:05")
	return v
}

func render(t *template.Template, v mailView) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
