package queries

import (
	"context"
	"strings"

	"verdict/contexts/judging/certification-service/domain/entities"
	domainerrors "verdict/contexts/judging/certification-service/domain/errors"
	"verdict/contexts/judging/certification-service/domain/services"
	"verdict/contexts/judging/certification-service/ports"
)

// ProgressUseCase reads the certification ledger.
type ProgressUseCase struct {
	Catalog ports.CatalogReader
	Ledger  ports.CertificationLedger
}

// CertificationProgress reports which of JUDGE, TALLY_MASTER, AUDITOR and
// BOARD have certified the category.
func (uc ProgressUseCase) CertificationProgress(
	ctx context.Context,
	categoryID string,
) (entities.CertificationProgress, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return entities.CertificationProgress{}, domainerrors.ErrInvalidInput
	}
	category, err := uc.Catalog.GetCategory(ctx, categoryID)
	if err != nil {
		return entities.CertificationProgress{}, err
	}
	certifications, err := uc.Ledger.ListCategoryCertifications(ctx, categoryID)
	if err != nil {
		return entities.CertificationProgress{}, err
	}
	judgeCertifications, err := uc.Ledger.ListJudgeCertifications(ctx, categoryID)
	if err != nil {
		return entities.CertificationProgress{}, err
	}
	workflow, found, err := uc.Ledger.GetWorkflow(ctx, categoryID)
	if err != nil {
		return entities.CertificationProgress{}, err
	}
	var tracked *entities.CategoryWorkflow
	if found {
		tracked = &workflow
	}
	return services.BuildProgress(category, certifications, entities.ActiveJudgeCertifications(judgeCertifications), tracked), nil
}

type CertificationListing struct {
	CategoryCertifications []entities.CategoryCertification
	JudgeCertifications    []entities.JudgeCertification
}

func (uc ProgressUseCase) ListCertifications(ctx context.Context, categoryID string) (CertificationListing, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return CertificationListing{}, domainerrors.ErrInvalidInput
	}
	if _, err := uc.Catalog.GetCategory(ctx, categoryID); err != nil {
		return CertificationListing{}, err
	}
	certifications, err := uc.Ledger.ListCategoryCertifications(ctx, categoryID)
	if err != nil {
		return CertificationListing{}, err
	}
	judgeCertifications, err := uc.Ledger.ListJudgeCertifications(ctx, categoryID)
	if err != nil {
		return CertificationListing{}, err
	}
	return CertificationListing{
		CategoryCertifications: certifications,
		JudgeCertifications:    judgeCertifications,
	}, nil
}
