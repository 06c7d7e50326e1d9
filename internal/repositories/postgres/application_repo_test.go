package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/apresmonbac/orientation/internal/models"
	"github.com/apresmonbac/orientation/internal/utils"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func sampleApplication(stageID string) *models.Application {
	return &models.Application{
		StageID:          stageID,
		Nom:              "Houngbo",
		Prenoms:          "Awa Mireille",
		Sexe:             models.SexeFeminin,
		Email:            "awa@example.com",
		Telephone:        "+2290197000000",
		Ecole:            "EPAC",
		Filiere:          "Génie Civil",
		AnneeEtude:       "Licence 3",
		TempsStage:       "3 mois",
		DateDebut:        datatypes.Date(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)),
		LettreMotivation: "Je souhaite mettre en pratique mes connaissances en génie civil sur vos chantiers.",
	}
}

func TestApplicationRepo_CreateAssignsID(t *testing.T) {
	repo := NewApplicationRepo(newTestDB(t))
	ctx := context.Background()

	a := sampleApplication("stage-1")
	a.ID = "client-chosen"
	require.NoError(t, repo.Create(ctx, a))

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, "client-chosen", a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Houngbo", got.Nom)
	assert.Nil(t, got.LettreDemandeURL)
	assert.Equal(t, "2025-09-01", got.StartDate().Format(time.DateOnly))
}

func TestApplicationRepo_AttachFileOnce(t *testing.T) {
	repo := NewApplicationRepo(newTestDB(t))
	ctx := context.Background()

	a := sampleApplication("stage-1")
	require.NoError(t, repo.Create(ctx, a))

	path := a.ID + "/lettre.pdf"
	require.NoError(t, repo.AttachFile(ctx, a.ID, path))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LettreDemandeURL)
	assert.Equal(t, path, *got.LettreDemandeURL)

	err = repo.AttachFile(ctx, a.ID, a.ID+"/autre.pdf")
	assert.ErrorIs(t, err, utils.ErrNotFound)

	err = repo.AttachFile(ctx, "missing", "x/y.pdf")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestApplicationRepo_Delete(t *testing.T) {
	repo := NewApplicationRepo(newTestDB(t))
	ctx := context.Background()

	a := sampleApplication("stage-1")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Delete(ctx, a.ID))

	_, err := repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestApplicationRepo_List(t *testing.T) {
	repo := NewApplicationRepo(newTestDB(t))
	ctx := context.Background()

	base := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	for i, stage := range []string{"stage-1", "stage-2", "stage-1"} {
		a := sampleApplication(stage)
		a.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		a.Nom = []string{"Adjovi", "Bio", "Chabi"}[i]
		require.NoError(t, repo.Create(ctx, a))
	}

	rows, total, err := repo.List(ctx, ApplicationFilter{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 3)
	assert.Equal(t, "Chabi", rows[0].Nom)

	rows, total, err = repo.List(ctx, ApplicationFilter{StageID: "stage-1", Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Adjovi", rows[0].Nom)
}
