package event

import (
	"context"
	"fiji/bizerror"
	"fiji/common"
	"fiji/eventsearch"
	"fiji/persistence"
	"fiji/session"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	eventIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	QueryEventsFunc = queryEvents
	DetailEventFunc = detailEvent
	CreateEventFunc = createEvent
	UpdateEventFunc = updateEvent
	DeleteEventFunc = deleteEvent
)

func queryEvents(ctx context.Context, query *EventQuery, sec *session.Context) ([]Event, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	q := db.Model(&Event{})
	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	var events []Event
	if err := q.Order("start_time DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func detailEvent(ctx context.Context, id types.ID, sec *session.Context) (*Event, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	record := Event{ID: id}
	if err := db.First(&record, &record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func createEvent(ctx context.Context, creation *EventCreation, sec *session.Context) (*Event, error) {
	now := time.Now().Round(time.Millisecond)
	status := creation.Status
	if status == "" {
		status = StatusDraft
	}
	record := Event{
		ID:             common.NextId(eventIdWorker),
		Name:           creation.Name,
		Description:    creation.Description,
		Location:       creation.Location,
		StartTime:      creation.StartTime,
		EndTime:        creation.EndTime,
		RecurrenceRule: creation.RecurrenceRule,
		OrganizerUID:   sec.Identity.UID,
		Status:         status,
		CreateTime:     now,
		UpdateTime:     now,
	}

	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}

	eventsearch.IndexEventFunc(ctx, searchDocumentOf(&record))
	return &record, nil
}

func updateEvent(ctx context.Context, id types.ID, updating *EventUpdating, sec *session.Context) (*Event, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	record := Event{ID: id}
	if err := db.First(&record, &record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrRecordNotFound
		}
		return nil, err
	}

	changes := map[string]interface{}{
		"name":            updating.Name,
		"description":     updating.Description,
		"location":        updating.Location,
		"start_time":      updating.StartTime,
		"end_time":        updating.EndTime,
		"recurrence_rule": updating.RecurrenceRule,
		"update_time":     time.Now().Round(time.Millisecond),
	}
	if updating.Status != "" {
		changes["status"] = updating.Status
	}
	if err := db.Model(&Event{ID: id}).Updates(changes).Error; err != nil {
		return nil, err
	}

	updated := Event{ID: id}
	if err := db.First(&updated, &updated).Error; err != nil {
		return nil, err
	}
	eventsearch.IndexEventFunc(ctx, searchDocumentOf(&updated))
	return &updated, nil
}

func deleteEvent(ctx context.Context, id types.ID, sec *session.Context) error {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Delete(&Event{ID: id}).Error; err != nil {
		return err
	}
	eventsearch.DeleteEventFunc(ctx, id)
	return nil
}

func searchDocumentOf(record *Event) *eventsearch.EventDocument {
	return &eventsearch.EventDocument{
		ID:        record.ID,
		Name:      record.Name,
		Desc:      record.Description,
		Location:  record.Location,
		Status:    record.Status,
		StartTime: record.StartTime,
	}
}
