package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	appModels "github.com/ecavus/collegia/internal/app/models"
	appRepos "github.com/ecavus/collegia/internal/app/repositories"
	"github.com/ecavus/collegia/internal/db"
	"github.com/ecavus/collegia/internal/pkg/apperrors"
)

// CreateDefaultData creates a few starter colleges so a fresh install
// has something to join. Existing rows are left alone.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	collegeRepo := appRepos.NewCollegeRepository(database.Pool)

	lgr.Info().Msg("Checking/Creating default colleges...")
	var finalErr error

	defaults := []*appModels.College{
		{Name: "Government Engineering College", Description: "Engineering programs and shared course material"},
		{Name: "City Science College", Description: "Science and mathematics programs"},
	}

	for _, college := range defaults {
		if err := collegeRepo.Create(ctx, college); err != nil {
			if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
				continue
			}
			lgr.Error().Err(err).Str("name", college.Name).Msg("Error creating default college")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}
