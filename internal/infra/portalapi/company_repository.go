package portalapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"portal/internal/domain/entity"
	"portal/internal/domain/repository"
	"portal/internal/errors"
)

type companyRepository struct {
	client *Client
	logger *slog.Logger
}

// NewCompanyRepository creates a company repository backed by the portal API
func NewCompanyRepository(client *Client, logger *slog.Logger) repository.CompanyRepository {
	return &companyRepository{
		client: client,
		logger: logger,
	}
}

// ListCompanies calls GET /company/site
func (r *companyRepository) ListCompanies(ctx context.Context, query repository.CompanyQuery) (*entity.Page[*entity.Company], error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("limit", strconv.Itoa(query.Limit))
	if query.Name != "" {
		params.Set("name", query.Name)
	}
	if query.Category != "" {
		params.Set("category", query.Category)
	}
	if query.District != "" {
		params.Set("district", query.District)
	}

	var envelope pageEnvelope[companyModel]
	if _, err := r.client.GetJSON(ctx, "/company/site", params, &envelope); err != nil {
		return nil, err
	}

	companies := make([]*entity.Company, 0, len(envelope.Data))
	for i := range envelope.Data {
		company := envelope.Data[i].toEntity()
		if !company.Status.IsPublic() {
			r.logger.Debug("Dropping non-public company from listing",
				slog.String("company_id", company.ID),
				slog.String("status", string(company.Status)),
			)

			continue
		}
		companies = append(companies, company)
	}

	page := envelope.Page
	if page <= 0 {
		page = query.Page
	}
	limit := envelope.Limit
	if limit <= 0 {
		limit = query.Limit
	}

	return entity.NewPage(companies, envelope.Total, page, limit), nil
}

// FindCompanyByID calls GET /company/{id}
func (r *companyRepository) FindCompanyByID(ctx context.Context, id string) (*entity.Company, error) {
	var envelope detailEnvelope[companyModel]
	status, err := r.client.GetJSON(ctx, "/company/"+url.PathEscape(id), nil, &envelope)
	if status == http.StatusNotFound {
		return nil, repository.ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}
	if envelope.Response == nil {
		return nil, errors.Wrapf(repository.ErrCompanyNotFound, "empty response for company %s", id)
	}

	return envelope.Response.toEntity(), nil
}
