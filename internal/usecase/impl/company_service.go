package impl

import (
	"context"
	"log/slog"

	"portal/config"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/mapview"
	"portal/internal/domain/repository"
	"portal/internal/domain/service"
	"portal/internal/errors"
	"portal/internal/usecase"

	"github.com/paulmach/orb"
)

// companyService implements usecase.CompanyUsecase.
type companyService struct {
	repo    repository.CompanyRepository
	qrcode  service.QRCodeService
	mapOpts mapview.Options
	logger  *slog.Logger
}

// NewCompanyService is the constructor for companyService.
func NewCompanyService(
	cfg *config.Config,
	repo repository.CompanyRepository,
	qrcode service.QRCodeService,
	logger *slog.Logger,
) usecase.CompanyUsecase {
	mapCfg := cfg.Directory.Map

	return &companyService{
		repo:   repo,
		qrcode: qrcode,
		mapOpts: mapview.Options{
			DefaultCenter: orb.Point{mapCfg.CenterLng, mapCfg.CenterLat},
			DefaultZoom:   mapCfg.Zoom,
			SingleZoom:    mapCfg.SingleZoom,
			SingleCompany: true,
		},
		logger: logger,
	}
}

func (srv *companyService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// findActive loads a company and hides every non-active one.
func (srv *companyService) findActive(ctx context.Context, id string) (*entity.Company, error) {
	company, err := srv.repo.FindCompanyByID(ctx, id)
	if err != nil {
		return nil, translateUpstreamError(err)
	}

	if !company.Status.IsPublic() {
		srv.log(ctx).Debug("Hiding non-public company",
			slog.String("company_id", id),
			slog.String("status", string(company.Status)),
		)

		return nil, errors.Wrapf(domainerrors.ErrCompanyNotFound, "company %s is %s", id, company.Status)
	}

	return company, nil
}

func (srv *companyService) GetCompany(ctx context.Context, id string) (*usecase.CompanyDetail, error) {
	company, err := srv.findActive(ctx, id)
	if err != nil {
		return nil, err
	}

	return &usecase.CompanyDetail{
		Company:    company,
		Image:      company.DisplayImage(),
		Phone:      company.DisplayPhone(),
		ProfileURL: srv.qrcode.ProfileURL(company),
		Map:        mapview.Project([]*entity.Company{company}, 1, srv.mapOpts),
	}, nil
}

func (srv *companyService) GetCompanyQRCode(ctx context.Context, id string) ([]byte, error) {
	company, err := srv.findActive(ctx, id)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrcode.GenerateCompanyQR(company)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInternalError, err.Error())
	}

	return png, nil
}
