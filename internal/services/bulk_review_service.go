package services

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"

	"campaignhub_backend/internal/logger"
	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/repositories"
	"campaignhub_backend/internal/services/dto"
	"campaignhub_backend/internal/tabular"
	"campaignhub_backend/internal/validator"
	"campaignhub_backend/internal/workflow"
	"campaignhub_backend/pkg/apperrors"

	"github.com/google/uuid"
)

const (
	bulkReasonApplicationNotFound = "application_not_found"
	bulkReasonMissingStatus       = "missing_status"
)

type BulkReviewService interface {
	// Process обрабатывает строки последовательно; ошибка строки не прерывает пакет
	Process(ctx context.Context, actor models.Actor, variant string, rows []tabular.Row, defaultCampaignID string) *dto.BulkResult
}

type bulkReviewService struct {
	repos        *repositories.Repositories
	applications ApplicationService
}

func NewBulkReviewService(repos *repositories.Repositories, applications ApplicationService) BulkReviewService {
	return &bulkReviewService{repos: repos, applications: applications}
}

// ParseBulkInput распознает JSON (массив или {"rows": [...]}) либо CSV с заголовком
func ParseBulkInput(data []byte) ([]tabular.Row, string, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		batch, err := tabular.ParseJSONRows(trimmed)
		if err != nil {
			return nil, "", err
		}
		return batch.Rows, batch.CampaignID, nil
	}

	rows, err := tabular.ParseCSV(data)
	if err != nil {
		return nil, "", err
	}
	return rows, "", nil
}

func (s *bulkReviewService) Process(ctx context.Context, actor models.Actor, variant string, rows []tabular.Row, defaultCampaignID string) *dto.BulkResult {
	ctx = logger.WithCorrelationID(ctx, "bulk-"+uuid.NewString())
	result := dto.NewBulkResult(len(rows))

	for i, raw := range rows {
		s.processRow(ctx, actor, variant, i+1, raw, defaultCampaignID, result)
	}

	logger.CtxInfo(ctx, "Bulk review finished",
		"variant", variant,
		"total", result.Total,
		"updated", result.Updated,
		"not_found", len(result.NotFound),
		"errors", len(result.Errors),
		"skipped", len(result.Skipped),
	)
	return result
}

func (s *bulkReviewService) processRow(
	ctx context.Context,
	actor models.Actor,
	variant string,
	rowNum int,
	raw tabular.Row,
	defaultCampaignID string,
	result *dto.BulkResult,
) {
	defer func() {
		if r := recover(); r != nil {
			logger.CtxError(ctx, "Bulk row panicked", "row", rowNum, "panic", r)
			result.Errors = append(result.Errors, dto.BulkRowError{
				Row:     rowNum,
				Code:    string(apperrors.CodeInternalError),
				Message: "unexpected error while processing row",
			})
		}
	}()

	row := workflow.NormalizeRow(raw, defaultCampaignID)

	rawStatus := row[workflow.KeyStatus]
	if rawStatus == "" {
		result.Skipped = append(result.Skipped, dto.BulkSkipped{Row: rowNum, Reason: bulkReasonMissingStatus})
		return
	}

	status, ok := workflow.NormalizeStatus(rawStatus)
	if !ok {
		appErr := apperrors.ErrUnknownStatus(rawStatus)
		result.Errors = append(result.Errors, dto.BulkRowError{
			Row:       rowNum,
			Code:      string(appErr.Code),
			Message:   appErr.Message,
			RawStatus: rawStatus,
		})
		return
	}

	app, err := s.resolve(ctx, row)
	switch {
	case errors.Is(err, apperrors.ErrMissingIdentifier):
		result.Errors = append(result.Errors, rowError(rowNum, err))
		return
	case errors.Is(err, repositories.ErrApplicationNotFound), errors.Is(err, repositories.ErrUserNotFound):
		result.NotFound = append(result.NotFound, dto.BulkNotFound{
			Row:             rowNum,
			Reason:          bulkReasonApplicationNotFound,
			ApplicationID:   row[workflow.KeyApplicationID],
			InfluencerID:    row[workflow.KeyInfluencerID],
			InfluencerEmail: row[workflow.KeyInfluencerEmail],
			CampaignID:      row[workflow.KeyCampaignID],
		})
		return
	case err != nil:
		result.Errors = append(result.Errors, rowError(rowNum, err))
		return
	}

	if err := s.dispatch(ctx, actor, variant, app.ID, status, row); err != nil {
		result.Errors = append(result.Errors, rowError(rowNum, err))
		return
	}
	result.Updated++
}

// resolve: application_id, затем influencer_id + campaign_id, затем email + campaign_id
func (s *bulkReviewService) resolve(ctx context.Context, row map[string]string) (*models.Application, error) {
	applicationID := row[workflow.KeyApplicationID]
	influencerID := row[workflow.KeyInfluencerID]
	influencerEmail := row[workflow.KeyInfluencerEmail]
	campaignID := row[workflow.KeyCampaignID]

	switch {
	case applicationID != "":
		return s.repos.Applications.FindByID(ctx, applicationID)
	case influencerID != "" && campaignID != "":
		return s.repos.Applications.FindByInfluencerAndCampaign(ctx, influencerID, campaignID)
	case influencerEmail != "" && campaignID != "":
		user, err := s.repos.Users.FindByEmail(ctx, influencerEmail)
		if err != nil {
			return nil, err
		}
		return s.repos.Applications.FindByInfluencerAndCampaign(ctx, user.ID, campaignID)
	default:
		return nil, apperrors.ErrMissingIdentifier
	}
}

func (s *bulkReviewService) dispatch(
	ctx context.Context,
	actor models.Actor,
	variant, applicationID string,
	status models.ApplicationStatus,
	row map[string]string,
) error {
	approve := status == models.ApplicationStatusApproved

	if variant == validator.BulkVariantOrder {
		req := &dto.OrderReviewRequest{
			Reason:         row[workflow.KeyReason],
			Comment:        row[workflow.KeyComment],
			AppealFormName: row[workflow.KeyAppealFormName],
		}
		if !approve {
			_, err := s.applications.RejectOrder(ctx, actor, applicationID, req)
			return err
		}
		if raw := row[workflow.KeyApprovedAmount]; raw != "" {
			amount, err := parseAmount(raw)
			if err != nil {
				return apperrors.ErrInvalidApprovedAmount.WithDetails(map[string]string{"approved_amount": raw})
			}
			req.ApprovedAmount = &amount
		}
		_, err := s.applications.ApproveOrder(ctx, actor, applicationID, req)
		return err
	}

	req := &dto.ReviewRequest{Reason: row[workflow.KeyReason], Comment: row[workflow.KeyComment]}
	if approve {
		_, err := s.applications.Approve(ctx, actor, applicationID, req)
		return err
	}
	_, err := s.applications.Reject(ctx, actor, applicationID, req)
	return err
}

// parseAmount допускает символ валюты и разделители тысяч: "$1,250.50"
func parseAmount(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return -1
	}, raw)
	return strconv.ParseFloat(cleaned, 64)
}

func rowError(row int, err error) dto.BulkRowError {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return dto.BulkRowError{Row: row, Code: string(appErr.Code), Message: appErr.Message}
	}
	return dto.BulkRowError{Row: row, Code: string(apperrors.CodeInternalError), Message: err.Error()}
}
