package sendnotification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rwa-workers/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "send-notification"
)

var (
	ErrUnknownEvent = errors.New("UNKNOWN_NOTIFICATION_EVENT")
	ErrSendFailed   = errors.New("NOTIFICATION_SEND_FAILED")
)

// EmailSender matches the SES wrapper so tests can fake delivery.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// TopicPublisher matches the SNS wrapper.
type TopicPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	cfg       *Config
	email     EmailSender
	publisher TopicPublisher
	logger    logger.Logger
}

func NewHandler(cfg *Config, email EmailSender, publisher TopicPublisher, log logger.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		email:     email,
		publisher: publisher,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "NOTIFICATION_SEND_FAILED"
		if errors.Is(err, ErrUnknownEvent) {
			errorCode = "UNKNOWN_NOTIFICATION_EVENT"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	subject, body, err := renderTemplate(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownEvent, err)
	}

	var channels []string

	if h.cfg.EmailEnabled && h.email != nil && input.Email != "" {
		if err := h.sendEmail(ctx, input.Email, subject, body); err != nil {
			return nil, fmt.Errorf("%w: email: %v", ErrSendFailed, err)
		}
		channels = append(channels, "email")
	}

	if h.cfg.SMSEnabled && h.publisher != nil && h.cfg.TopicARN != "" {
		if err := h.publish(ctx, input, subject, body); err != nil {
			return nil, fmt.Errorf("%w: sns: %v", ErrSendFailed, err)
		}
		channels = append(channels, "sns")
	}

	if len(channels) == 0 {
		h.logger.Warn("no notification channel available", map[string]interface{}{
			"userId": input.UserID,
			"event":  input.Event,
		})
	}

	h.logger.Info("notification dispatched", map[string]interface{}{
		"userId":   input.UserID,
		"event":    input.Event,
		"channels": channels,
	})

	return &Output{
		Success:  len(channels) > 0,
		Channels: channels,
		SentAt:   time.Now().UTC(),
	}, nil
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(h.cfg.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	return err
}

func (h *Handler) publish(ctx context.Context, input *Input, subject, body string) error {
	payload, err := json.Marshal(map[string]string{
		"userId":  input.UserID,
		"event":   input.Event,
		"assetId": input.AssetID,
		"subject": subject,
		"message": body,
	})
	if err != nil {
		return err
	}
	_, err = h.publisher.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.cfg.TopicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(string(payload)),
	})
	return err
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
