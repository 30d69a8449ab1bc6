package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
	"github.com/labwise/labwise/internal/logger"
	"github.com/labwise/labwise/internal/mail"
)

// Dispatcher fans one firing out to its recipients. Each recipient is an
// independent attempt: a transport failure for one neither blocks nor rolls
// back the others, and failed sends are never retried.
type Dispatcher struct {
	transport ports.MailTransport
	logRepo   ports.NotificationLogRepository
	logger    logger.Logger
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(transport ports.MailTransport, logRepo ports.NotificationLogRepository) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		logRepo:   logRepo,
		logger:    logger.New("dispatcher", ""),
	}
}

// Dispatch renders the firing's message from the snapshot it carries, sends
// it to every recipient and appends one notification log entry per attempt.
func (d *Dispatcher) Dispatch(ctx context.Context, firing *models.Firing) []models.DispatchOutcome {
	logger.FiringsTotal.WithLabelValues(string(firing.Kind)).Inc()

	message, err := mail.Render(firing)
	if err != nil {
		// Rendering failure affects the whole firing; record it for every
		// recipient so the attempt is visible in the log.
		d.logger.Errorw("Failed to render notification", "kind", firing.Kind,
			"equipment_id", firing.Equipment.ID, "error", err)
		outcomes := make([]models.DispatchOutcome, 0, len(firing.Recipients))
		for _, recipient := range firing.Recipients {
			outcomes = append(outcomes, d.record(ctx, firing, recipient, "", err))
		}
		return outcomes
	}

	outcomes := make([]models.DispatchOutcome, 0, len(firing.Recipients))
	for _, recipient := range firing.Recipients {
		sendErr := d.transport.Send(ctx, recipient, message.Subject, message.HTML)
		if sendErr != nil {
			d.logger.Errorw("Notification send failed", "kind", firing.Kind,
				"equipment_id", firing.Equipment.ID, "recipient", recipient, "error", sendErr)
		} else {
			d.logger.Infow("Notification sent", "kind", firing.Kind,
				"equipment_id", firing.Equipment.ID, "recipient", recipient)
		}
		outcomes = append(outcomes, d.record(ctx, firing, recipient, message.Subject, sendErr))
	}

	return outcomes
}

// record appends the log entry for one attempt and builds its outcome. The
// log write is unconditional; a log persistence failure is itself only
// logged, never propagated into the sweep.
func (d *Dispatcher) record(ctx context.Context, firing *models.Firing, recipient, subject string, sendErr error) models.DispatchOutcome {
	now := time.Now()

	entry := &models.NotificationLog{
		ID:                    uuid.NewString(),
		Kind:                  firing.Kind,
		EquipmentName:         firing.Equipment.Instrument,
		EquipmentInternalCode: firing.Equipment.InternalCode,
		Subject:               subject,
		Recipient:             recipient,
		Recipients:            firing.Recipients,
		Status:                models.DispatchStatusSent,
		CreatedAt:             now,
		SentAt:                now,
	}

	outcome := models.DispatchOutcome{Recipient: recipient, Status: models.DispatchStatusSent}

	if sendErr != nil {
		entry.Status = models.DispatchStatusFailed
		entry.Error = sendErr.Error()
		outcome.Status = models.DispatchStatusFailed
		outcome.Error = sendErr.Error()
	}

	logger.DispatchTotal.WithLabelValues(string(firing.Kind), string(entry.Status)).Inc()

	if err := d.logRepo.Append(ctx, entry); err != nil {
		d.logger.Errorw("Failed to append notification log", "kind", firing.Kind,
			"recipient", recipient, "error", err)
	}

	return outcome
}
