package appointments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

const (
	icalTimeFormat = "20060102T150405Z"
	icalProdID     = "-//MesterHub//MH-SchedulingService//EN"
)

// ExportICal выгружает календарь мастера за период в формате iCalendar.
// Публичная выгрузка без данных клиента кроме его заметок к записи.
// Отменённые и перенесённые строки выгружаются со STATUS:CANCELLED -
// внешние календари удаляют такие события по стабильному UID.
func (s *Service) ExportICal(ctx context.Context, professionalID int64, from, to time.Time) (string, error) {
	s.logger.Info("ExportICal: exporting calendar for professional=%d, period=%s to %s",
		professionalID, from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		ProfessionalID: &professionalID,
		StartDate:      &from,
		EndDate:        &to,
	})
	if err != nil {
		s.logger.Error("ExportICal: repository error for professional=%d: %v", professionalID, err)
		return "", fmt.Errorf("%w: ExportICal - repository error: %v", ErrInternal, err)
	}

	var b strings.Builder
	writeICalLine(&b, "BEGIN:VCALENDAR")
	writeICalLine(&b, "VERSION:2.0")
	writeICalLine(&b, "PRODID:"+icalProdID)
	writeICalLine(&b, "CALSCALE:GREGORIAN")
	writeICalLine(&b, "METHOD:PUBLISH")

	now := s.timeProvider.Now().UTC()
	for _, appointment := range appointments {
		writeICalEvent(&b, appointment, now)
	}

	writeICalLine(&b, "END:VCALENDAR")

	s.logger.Info("ExportICal: exported %d events for professional=%d", len(appointments), professionalID)
	return b.String(), nil
}

func writeICalEvent(b *strings.Builder, appointment *domain.Appointment, now time.Time) {
	writeICalLine(b, "BEGIN:VEVENT")
	writeICalLine(b, "UID:"+icalUID(appointment))
	writeICalLine(b, "DTSTAMP:"+now.Format(icalTimeFormat))
	writeICalLine(b, "DTSTART:"+appointment.ScheduledStart.UTC().Format(icalTimeFormat))
	writeICalLine(b, "DTEND:"+appointment.ScheduledEnd.UTC().Format(icalTimeFormat))
	writeICalLine(b, "SUMMARY:"+escapeICalText(fmt.Sprintf("Appointment #%d", appointment.ID)))

	if appointment.LocationAddress != nil {
		writeICalLine(b, "LOCATION:"+escapeICalText(*appointment.LocationAddress))
	}
	if appointment.CustomerNotes != nil {
		writeICalLine(b, "DESCRIPTION:"+escapeICalText(*appointment.CustomerNotes))
	}

	writeICalLine(b, "STATUS:"+icalStatus(appointment.Status))
	writeICalLine(b, "END:VEVENT")
}

// icalUID возвращает стабильный UID события: внешние календари
// сопоставляют события по UID при повторных импортах
func icalUID(appointment *domain.Appointment) string {
	if appointment.ExternalCalendarUID != nil && *appointment.ExternalCalendarUID != "" {
		return *appointment.ExternalCalendarUID
	}
	return fmt.Sprintf("appointment-%d@mh-scheduling", appointment.ID)
}

func icalStatus(status domain.AppointmentStatus) string {
	switch status {
	case domain.StatusConfirmed, domain.StatusCompleted, domain.StatusNoShow:
		return "CONFIRMED"
	default:
		return "CANCELLED"
	}
}

// writeICalLine пишет строку с CRLF-терминатором по RFC 5545
func writeICalLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

func escapeICalText(text string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return replacer.Replace(text)
}
