// Package mail renders the rule-kind specific notification messages. All
// rendering works on the equipment and task snapshot taken at firing time,
// never on live references.
package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/labwise/labwise/internal/domain/models"
)

// Message is a rendered notification ready for the transport
type Message struct {
	Subject string
	HTML    string
}

type templateData struct {
	Equipment    *models.Equipment
	Task         *models.MaintenanceTask
	DaysUntilDue int
}

var bodyTemplates = template.Must(template.New("notifications").Parse(`
{{define "header"}}
<div style="font-family: Arial, sans-serif; max-width: 600px;">
  <h2 style="color: #1a56db;">LabWise</h2>
{{end}}

{{define "equipment"}}
  <table style="border-collapse: collapse; width: 100%;">
    <tr><td style="padding: 4px 8px;"><b>Equipo</b></td><td>{{.Equipment.Instrument}}</td></tr>
    <tr><td style="padding: 4px 8px;"><b>Código interno</b></td><td>{{.Equipment.InternalCode}}</td></tr>
    <tr><td style="padding: 4px 8px;"><b>Marca / Modelo</b></td><td>{{.Equipment.Brand}} {{.Equipment.Model}}</td></tr>
    <tr><td style="padding: 4px 8px;"><b>Serie</b></td><td>{{.Equipment.SerialNumber}}</td></tr>
  </table>
{{end}}

{{define "task"}}
  <table style="border-collapse: collapse; width: 100%;">
    <tr><td style="padding: 4px 8px;"><b>Tarea</b></td><td>{{.Task.Action}}</td></tr>
    <tr><td style="padding: 4px 8px;"><b>Fecha programada</b></td><td>{{.Task.ScheduledDate.Format "2006-01-02"}}</td></tr>
    <tr><td style="padding: 4px 8px;"><b>Responsable</b></td><td>{{.Task.Responsible}}</td></tr>
  </table>
{{end}}

{{define "footer"}}
  <p style="color: #6b7280; font-size: 12px;">Este es un mensaje automático de LabWise. No responda a este correo.</p>
</div>
{{end}}

{{define "maintenance_overdue"}}
{{template "header" .}}
  <p>El siguiente mantenimiento programado está <b>VENCIDO</b>:</p>
{{template "task" .}}
{{template "equipment" .}}
{{template "footer" .}}
{{end}}

{{define "calibration_due"}}
{{template "header" .}}
  <p>La calibración externa del siguiente equipo vence en <b>{{.DaysUntilDue}} día(s)</b> ({{.Equipment.NextExternalCalibration}}):</p>
{{template "equipment" .}}
{{template "footer" .}}
{{end}}

{{define "maintenance_reminder"}}
{{template "header" .}}
  <p>Recordatorio: el siguiente mantenimiento está programado.</p>
{{template "task" .}}
{{template "equipment" .}}
{{template "footer" .}}
{{end}}

{{define "maintenance_completed"}}
{{template "header" .}}
  <p>El siguiente mantenimiento fue <b>COMPLETADO</b>{{if .Task.CompletionDate}} el {{.Task.CompletionDate.Format "2006-01-02"}}{{end}}:</p>
{{template "task" .}}
{{template "equipment" .}}
{{template "footer" .}}
{{end}}

{{define "custom"}}
{{template "header" .}}
  <p>Notificación de LabWise para el siguiente equipo:</p>
{{template "equipment" .}}
{{template "footer" .}}
{{end}}
`))

// Render builds the outbound message for one firing. Custom rule kinds fall
// back to a generic body with the rule's own subject line.
func Render(firing *models.Firing) (*Message, error) {
	data := templateData{
		Equipment:    firing.Equipment,
		Task:         firing.Task,
		DaysUntilDue: firing.DaysUntilDue,
	}

	name := string(firing.Kind)
	subject := ""

	switch firing.Kind {
	case models.RuleKindMaintenanceOverdue:
		subject = fmt.Sprintf("Mantenimiento VENCIDO - %s", firing.Equipment.Instrument)
	case models.RuleKindCalibrationDue:
		subject = fmt.Sprintf("Calibración Próxima a Vencer - %s", firing.Equipment.Instrument)
	case models.RuleKindMaintenanceReminder:
		subject = fmt.Sprintf("Recordatorio: Mantenimiento Programado - %s", firing.Equipment.Instrument)
	case models.RuleKindMaintenanceCompleted:
		subject = fmt.Sprintf("Mantenimiento COMPLETADO - %s", firing.Equipment.Instrument)
	default:
		name = "custom"
		subject = fmt.Sprintf("Notificación LabWise - %s", firing.Equipment.Instrument)
	}

	var buf bytes.Buffer
	if err := bodyTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s template: %w", name, err)
	}

	return &Message{Subject: subject, HTML: buf.String()}, nil
}
