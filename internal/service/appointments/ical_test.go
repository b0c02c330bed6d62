package appointments

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

func TestExportICal(t *testing.T) {
	location := "Budapest, Fő utca 1; kapucsengő 5"
	notes := "hozni kell:\nlétra, csavarhúzó"

	cancelled := confirmedAppointment()
	cancelled.ID = 51
	cancelled.Status = domain.StatusCancelledByCustomer

	rescheduled := confirmedAppointment()
	rescheduled.ID = 52
	rescheduled.Status = domain.StatusRescheduled

	exported := confirmedAppointment()
	exported.LocationAddress = &location
	exported.CustomerNotes = &notes

	repo := &stubAppointmentRepo{list: []*domain.Appointment{exported, cancelled, rescheduled}}
	svc, _, _ := newTestService(repo)

	from := serviceNow
	to := serviceNow.AddDate(0, 0, 30)

	ics, err := svc.ExportICal(context.Background(), 10, from, to)
	require.NoError(t, err)

	// Все строки терминируются CRLF по RFC 5545
	lines := strings.Split(strings.TrimSuffix(ics, "\r\n"), "\r\n")
	for _, line := range lines {
		assert.NotContains(t, line, "\n")
	}

	assert.Equal(t, "BEGIN:VCALENDAR", lines[0])
	assert.Equal(t, "END:VCALENDAR", lines[len(lines)-1])
	assert.Contains(t, ics, "PRODID:"+icalProdID)

	// Отменённые и перенесённые строки выгружаются со STATUS:CANCELLED,
	// чтобы внешний календарь удалил их по UID
	assert.Equal(t, 3, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Equal(t, 2, strings.Count(ics, "STATUS:CANCELLED"))
	assert.Contains(t, ics, "UID:appointment-51@mh-scheduling")
	assert.Contains(t, ics, "UID:appointment-52@mh-scheduling")

	// Стабильный UID: внешние календари сопоставляют события при повторных импортах
	assert.Contains(t, ics, "UID:appointment-50@mh-scheduling")

	assert.Contains(t, ics, "DTSTART:"+exported.ScheduledStart.UTC().Format(icalTimeFormat))
	assert.Contains(t, ics, "DTEND:"+exported.ScheduledEnd.UTC().Format(icalTimeFormat))
	assert.Contains(t, ics, "STATUS:CONFIRMED")

	// Спецсимволы текстовых полей экранируются
	assert.Contains(t, ics, "LOCATION:Budapest\\, Fő utca 1\\; kapucsengő 5")
	assert.Contains(t, ics, "DESCRIPTION:hozni kell:\\nlétra\\, csavarhúzó")
}

func TestExportICal_ExternalUIDWins(t *testing.T) {
	externalUID := "imported-abc123@google.com"
	appointment := confirmedAppointment()
	appointment.ExternalCalendarUID = &externalUID

	repo := &stubAppointmentRepo{list: []*domain.Appointment{appointment}}
	svc, _, _ := newTestService(repo)

	ics, err := svc.ExportICal(context.Background(), 10, serviceNow, serviceNow.AddDate(0, 0, 30))
	require.NoError(t, err)

	assert.Contains(t, ics, "UID:"+externalUID)
	assert.NotContains(t, ics, "appointment-50@mh-scheduling")
}

func TestExportICal_EmptyCalendar(t *testing.T) {
	repo := &stubAppointmentRepo{}
	svc, _, _ := newTestService(repo)

	ics, err := svc.ExportICal(context.Background(), 10, serviceNow, serviceNow.AddDate(0, 0, 30))
	require.NoError(t, err)

	assert.NotContains(t, ics, "BEGIN:VEVENT")
	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
}
