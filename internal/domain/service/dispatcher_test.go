package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/labwise/labwise/internal/adapters/memory"
	"github.com/labwise/labwise/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport records every send and fails the recipients listed in failFor
type fakeTransport struct {
	sent    []fakeSend
	failFor map[string]error
}

type fakeSend struct {
	to      string
	subject string
	html    string
}

func (f *fakeTransport) Send(ctx context.Context, to, subject, html string) error {
	f.sent = append(f.sent, fakeSend{to: to, subject: subject, html: html})
	if err, ok := f.failFor[to]; ok {
		return err
	}
	return nil
}

func overdueFiring(recipients ...string) *models.Firing {
	return &models.Firing{
		Kind: models.RuleKindMaintenanceOverdue,
		Equipment: &models.Equipment{
			ID:           "eq-1",
			Instrument:   "Centrífuga",
			InternalCode: "CEN-004",
			Brand:        "Eppendorf",
			Model:        "5424 R",
		},
		Task: &models.MaintenanceTask{
			ID:            "task-1",
			EquipmentID:   "eq-1",
			Action:        "Revisión de rotor",
			Responsible:   "J. Pérez",
			Status:        models.MaintenanceStatusScheduled,
			ScheduledDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		},
		Recipients: recipients,
	}
}

func TestDispatchPerRecipientIndependence(t *testing.T) {
	transport := &fakeTransport{
		failFor: map[string]error{"b@example.com": errors.New("connection refused")},
	}
	logRepo := memory.NewInMemoryNotificationLogRepository()
	dispatcher := NewDispatcher(transport, logRepo)

	firing := overdueFiring("a@example.com", "b@example.com", "c@example.com")
	outcomes := dispatcher.Dispatch(context.Background(), firing)

	// The middle failure must not stop the remaining recipients.
	require.Len(t, outcomes, 3)
	assert.Equal(t, models.DispatchStatusSent, outcomes[0].Status)
	assert.Equal(t, models.DispatchStatusFailed, outcomes[1].Status)
	assert.Contains(t, outcomes[1].Error, "connection refused")
	assert.Equal(t, models.DispatchStatusSent, outcomes[2].Status)

	require.Len(t, transport.sent, 3)
	assert.Equal(t, "Mantenimiento VENCIDO - Centrífuga", transport.sent[0].subject)
	assert.Contains(t, transport.sent[0].html, "CEN-004")

	entries, err := logRepo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, entry := range entries {
		assert.Equal(t, models.RuleKindMaintenanceOverdue, entry.Kind)
		assert.Equal(t, "Centrífuga", entry.EquipmentName)
		assert.Equal(t, "CEN-004", entry.EquipmentInternalCode)
		assert.ElementsMatch(t, firing.Recipients, entry.Recipients)
	}
}

func TestDispatchRendersOnce(t *testing.T) {
	transport := &fakeTransport{}
	dispatcher := NewDispatcher(transport, memory.NewInMemoryNotificationLogRepository())

	firing := overdueFiring("a@example.com", "b@example.com")
	dispatcher.Dispatch(context.Background(), firing)

	require.Len(t, transport.sent, 2)
	assert.Equal(t, transport.sent[0].subject, transport.sent[1].subject)
	assert.Equal(t, transport.sent[0].html, transport.sent[1].html)
}

func TestDispatchCalibrationDueMessage(t *testing.T) {
	transport := &fakeTransport{}
	logRepo := memory.NewInMemoryNotificationLogRepository()
	dispatcher := NewDispatcher(transport, logRepo)

	firing := &models.Firing{
		Kind: models.RuleKindCalibrationDue,
		Equipment: &models.Equipment{
			ID:                      "eq-2",
			Instrument:              "pHmetro",
			InternalCode:            "PH-010",
			NextExternalCalibration: "2026-08-20",
		},
		DaysUntilDue: 5,
		Recipients:   []string{"lab@example.com"},
	}

	outcomes := dispatcher.Dispatch(context.Background(), firing)

	require.Len(t, outcomes, 1)
	assert.Equal(t, models.DispatchStatusSent, outcomes[0].Status)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "Calibración Próxima a Vencer - pHmetro", transport.sent[0].subject)
	assert.Contains(t, transport.sent[0].html, "5 día(s)")
	assert.Contains(t, transport.sent[0].html, "2026-08-20")
}

func TestDispatchCustomKindFallsBack(t *testing.T) {
	transport := &fakeTransport{}
	dispatcher := NewDispatcher(transport, memory.NewInMemoryNotificationLogRepository())

	firing := &models.Firing{
		Kind:       models.RuleKind("alerta_personalizada"),
		Equipment:  &models.Equipment{ID: "eq-3", Instrument: "Autoclave", InternalCode: "AUT-002"},
		Recipients: []string{"lab@example.com"},
	}

	outcomes := dispatcher.Dispatch(context.Background(), firing)

	require.Len(t, outcomes, 1)
	assert.Equal(t, models.DispatchStatusSent, outcomes[0].Status)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "Notificación LabWise - Autoclave", transport.sent[0].subject)
}

func TestDispatchNoRecipients(t *testing.T) {
	transport := &fakeTransport{}
	logRepo := memory.NewInMemoryNotificationLogRepository()
	dispatcher := NewDispatcher(transport, logRepo)

	outcomes := dispatcher.Dispatch(context.Background(), overdueFiring())

	assert.Empty(t, outcomes)
	assert.Empty(t, transport.sent)

	entries, err := logRepo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
