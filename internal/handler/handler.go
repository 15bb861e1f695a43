// Package handler runs one ingestion: fetch the uploaded object, validate its
// patient records and store either the processed output or an error report.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/akave-ai/patientingest/internal/config"
	"github.com/akave-ai/patientingest/internal/model"
	"github.com/akave-ai/patientingest/internal/response"
	"github.com/akave-ai/patientingest/internal/storage"
	"github.com/akave-ai/patientingest/internal/validation"
)

// Response messages.
const (
	MsgSuccess          = "Data processing completed successfully"
	MsgValidationFailed = "Data validation failed"
	MsgInvalidJSON      = "Invalid JSON format"
	MsgInvalidEvent     = "Invalid event structure"
	MsgInternalError    = "Internal processing error"
)

var errInvalidUTF8 = errors.New("source is not valid UTF-8")

// Handler processes S3 upload notifications. It holds no per-invocation
// state and is safe to reuse across invocations.
type Handler struct {
	store  storage.ObjectStore
	cfg    *config.Config
	logger zerolog.Logger
	now    func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock overrides the time source used for timestamps and object keys.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// New returns a Handler reading from and writing to store. The bucket names
// in cfg are checked on every invocation, so a Handler built from incomplete
// configuration still answers with an internal error response.
func New(store storage.ObjectStore, cfg *config.Config, logger zerolog.Logger, opts ...Option) *Handler {
	h := &Handler{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle processes the object named by an S3 notification payload. Every
// failure is reported through the returned response; the error is always nil.
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) (resp events.APIGatewayProxyResponse, err error) {
	log := h.invocationLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("unexpected panic processing data")
			resp = response.InternalError(MsgInternalError, fmt.Sprint(r))
			err = nil
		}
	}()

	resp, procErr := h.process(ctx, payload, &log)
	if procErr != nil {
		return h.failure(procErr, log), nil
	}
	return resp, nil
}

func (h *Handler) process(ctx context.Context, payload json.RawMessage, log *zerolog.Logger) (events.APIGatewayProxyResponse, error) {
	if err := h.cfg.RequireBuckets(); err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("configuration: %w", err)
	}
	rawBucket, processedBucket := h.cfg.RawDataBucket, h.cfg.ProcessedDataBucket
	log.Info().
		Str("raw_bucket", rawBucket).
		Str("processed_bucket", processedBucket).
		Msg("starting data processing")

	key, err := ParseObjectKey(payload)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	*log = log.With().Str("key", key).Logger()
	log.Info().Msg("processing file")

	raw, err := h.store.Get(ctx, rawBucket, key)
	if err != nil {
		log.Error().Err(err).Str("code", storage.ErrorCode(err)).Msg("read source object failed")
		return events.APIGatewayProxyResponse{}, err
	}

	if !utf8.Valid(raw) {
		return events.APIGatewayProxyResponse{}, &DecodeError{Err: errInvalidUTF8}
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return events.APIGatewayProxyResponse{}, &DecodeError{Err: err}
	}

	inputRecords := 0
	if items, ok := data.([]any); ok {
		inputRecords = len(items)
	}
	log.Info().Int("input_records", inputRecords).Msg("read raw data")

	records, err := validation.Validate(data)
	if err != nil {
		var ve *validation.ValidationError
		if !errors.As(err, &ve) {
			return events.APIGatewayProxyResponse{}, err
		}
		return h.reportValidationFailure(ctx, processedBucket, key, ve, inputRecords, log)
	}
	log.Info().Int("validated_records", len(records)).Msg("data validation passed")

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("encode processed data: %w", err)
	}
	outputKey := storage.OutputKey(h.now())
	if err := h.store.Put(ctx, processedBucket, outputKey, out, storage.ContentTypeJSON); err != nil {
		log.Error().Err(err).Str("code", storage.ErrorCode(err)).Msg("write processed data failed")
		return events.APIGatewayProxyResponse{}, err
	}
	log.Info().
		Str("output_key", outputKey).
		Int("output_records", len(records)).
		Msg("wrote processed data")

	return response.OK(model.SuccessBody{
		Message:          MsgSuccess,
		InputRecords:     inputRecords,
		ValidatedRecords: len(records),
		OutputRecords:    len(records),
		OutputFile:       outputKey,
		ValidationStatus: model.ValidationStatusPassed,
	}), nil
}

// reportValidationFailure stores an error report and answers 400. A failed
// write is returned as an internal error.
func (h *Handler) reportValidationFailure(
	ctx context.Context,
	bucket, key string,
	ve *validation.ValidationError,
	inputRecords int,
	log *zerolog.Logger,
) (events.APIGatewayProxyResponse, error) {
	log.Error().Str("error", ve.Error()).Int("problems", len(ve.Problems)).Msg("data validation failed")

	now := h.now().UTC()
	report, err := json.MarshalIndent(model.ErrorReport{
		ErrorType:        model.ErrorTypeValidation,
		ErrorMessage:     ve.Error(),
		FileProcessed:    key,
		Timestamp:        now.Format(time.RFC3339),
		RecordsAttempted: inputRecords,
	}, "", "  ")
	if err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("encode error report: %w", err)
	}

	reportKey := storage.ErrorReportKey(now)
	if err := h.store.Put(ctx, bucket, reportKey, report, storage.ContentTypeJSON); err != nil {
		log.Error().Err(err).Str("code", storage.ErrorCode(err)).Msg("write error report failed")
		return events.APIGatewayProxyResponse{}, err
	}
	log.Info().Str("error_report_key", reportKey).Msg("wrote error report")

	return response.BadRequest(model.ValidationFailureBody{
		Message:          MsgValidationFailed,
		Error:            ve.Error(),
		ErrorReportFile:  reportKey,
		InputRecords:     inputRecords,
		ValidatedRecords: 0,
	}), nil
}

// failure maps an error to its response classification.
func (h *Handler) failure(err error, log zerolog.Logger) events.APIGatewayProxyResponse {
	var de *DecodeError
	if errors.As(err, &de) {
		log.Error().Err(de.Err).Msg("json parsing error")
		return response.Error(http.StatusBadRequest, MsgInvalidJSON, de.Err.Error())
	}

	var ee *EventError
	if errors.As(err, &ee) {
		log.Error().Str("field", ee.Field).Err(ee.Err).Msg("missing required field in event")
		return response.Error(http.StatusBadRequest, MsgInvalidEvent, ee.Detail())
	}

	log.Error().Err(err).Msg("unexpected error processing data")
	return response.InternalError(MsgInternalError, err.Error())
}

func (h *Handler) invocationLogger(ctx context.Context) zerolog.Logger {
	requestID := ""
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		requestID = lc.AwsRequestID
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return h.logger.With().Str("request_id", requestID).Logger()
}
