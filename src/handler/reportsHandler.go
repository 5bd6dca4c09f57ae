package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"crashreporter/src/auth"
	"crashreporter/src/enrich"
	"crashreporter/src/format"
	"crashreporter/src/model"
	"crashreporter/src/repository"
)

type reportCreator interface {
	Create(ctx context.Context, report *model.Report) error
}

type reportSearcher interface {
	Search(ctx context.Context, options repository.ReportSearchOptions) ([]model.Report, error)
}

// reportForwarder pushes a stored report to an external telemetry sink.
type reportForwarder interface {
	Forward(ctx context.Context, report *model.Report) error
}

// IngestRequest is the wire shape accepted by the ingest endpoint: the
// captured detail chain plus the reporter's severity level.
type IngestRequest struct {
	Level  string                 `json:"level"`
	Detail *model.ExceptionDetail `json:"detail"`
}

// IngestReportHandler accepts a captured ExceptionDetail, wraps it in a
// persisted report envelope and broadcasts the formatted rendering to live
// listeners. forwarder and hub may be nil.
func IngestReportHandler(repo reportCreator, forwarder reportForwarder, hub *StreamHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := auth.GetCallerFromContext(r.Context())
		if !ok || caller == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var payload IngestRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid report payload", http.StatusBadRequest)
			return
		}
		if payload.Detail == nil || payload.Detail.Message == "" {
			http.Error(w, "missing detail", http.StatusBadRequest)
			return
		}

		level := payload.Level
		if level == "" {
			level = "error"
		}

		detailJSON, err := json.Marshal(payload.Detail)
		if err != nil {
			http.Error(w, "unencodable detail", http.StatusBadRequest)
			return
		}

		host, _ := payload.Detail.AdditionalData.Get(enrich.KeyMachineName)
		report := &model.Report{
			ID:            uuid.NewString(),
			Service:       caller.Service,
			Host:          host,
			ErrorCode:     payload.Detail.ErrorCode,
			ExceptionType: payload.Detail.ExceptionType,
			Message:       payload.Detail.Message,
			Level:         level,
			Detail:        string(detailJSON),
			Formatted:     format.Format(payload.Detail, true),
		}

		if err := repo.Create(r.Context(), report); err != nil {
			logger.WithError(err).Error("failed to persist report")
			http.Error(w, "failed to persist report", http.StatusInternalServerError)
			return
		}

		if hub != nil {
			hub.Broadcast(report)
		}
		if forwarder != nil {
			if err := forwarder.Forward(r.Context(), report); err != nil {
				// Forwarding is best effort; the report is already stored.
				logger.WithError(err).WithField("report_id", report.ID).Warn("failed to forward report")
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(map[string]string{"id": report.ID}); err != nil {
			logger.WithError(err).Error("failed to write ingest response")
		}
	}
}

// SearchReportsHandler lists stored reports for the authenticated caller.
// Supports pagination and filters (service, level, errorCode, createdFrom,
// createdTo).
func SearchReportsHandler(repo reportSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := auth.GetCallerFromContext(r.Context())
		if !ok || caller == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		options := repository.ReportSearchOptions{Limit: 50}

		if service := r.URL.Query().Get("service"); service != "" {
			options.Service = &service
		}
		if level := r.URL.Query().Get("level"); level != "" {
			options.Level = &level
		}
		if errorCode := r.URL.Query().Get("errorCode"); errorCode != "" {
			options.ErrorCode = &errorCode
		}

		if createdFromParam := r.URL.Query().Get("createdFrom"); createdFromParam != "" {
			parsed, err := time.Parse(time.RFC3339, createdFromParam)
			if err != nil {
				http.Error(w, "invalid createdFrom", http.StatusBadRequest)
				return
			}
			options.CreatedAfter = &parsed
		}
		if createdToParam := r.URL.Query().Get("createdTo"); createdToParam != "" {
			parsed, err := time.Parse(time.RFC3339, createdToParam)
			if err != nil {
				http.Error(w, "invalid createdTo", http.StatusBadRequest)
				return
			}
			options.CreatedBefore = &parsed
		}

		if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
			limit, err := strconv.Atoi(limitParam)
			if err != nil || limit < 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			options.Limit = limit
		}
		if offsetParam := r.URL.Query().Get("offset"); offsetParam != "" {
			offset, err := strconv.Atoi(offsetParam)
			if err != nil || offset < 0 {
				http.Error(w, "invalid offset", http.StatusBadRequest)
				return
			}
			options.Offset = offset
		}

		reports, err := repo.Search(r.Context(), options)
		if err != nil {
			logger.WithError(err).Error("failed to search reports")
			http.Error(w, "failed to search reports", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(reports); err != nil {
			logger.WithError(err).Error("failed to write search response")
		}
	}
}
