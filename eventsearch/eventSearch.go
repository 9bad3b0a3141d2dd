package eventsearch

import (
	"context"
	"encoding/json"
	"fiji/client/es"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

const EventIndexName = "events"

// EventDocument is the denormalized searchable view of an event.
type EventDocument struct {
	ID        types.ID  `json:"id"`
	Name      string    `json:"name"`
	Desc      string    `json:"description"`
	Location  string    `json:"location"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"startTime"`
}

var (
	IndexEventFunc   = indexEvent
	DeleteEventFunc  = deleteEventDocument
	SearchEventsFunc = searchEvents
)

// indexEvent is best-effort: the database stays the source of truth, a failed
// index write is logged and repaired on the next mutation of the event.
func indexEvent(ctx context.Context, doc *EventDocument) {
	if err := es.IndexFunc(ctx, EventIndexName, doc.ID, doc); err != nil {
		logrus.Warnf("failed to index event %s: %v", doc.ID, err)
	}
}

func deleteEventDocument(ctx context.Context, id types.ID) {
	if err := es.DeleteDocumentByIdFunc(ctx, EventIndexName, id); err != nil {
		logrus.Warnf("failed to delete event document %s: %v", id, err)
	}
}

func searchEvents(ctx context.Context, keyword string) ([]EventDocument, error) {
	query := es.H{
		"query": es.H{
			"multi_match": es.H{
				"query":  keyword,
				"fields": []string{"name", "description", "location"},
			},
		},
	}
	result, err := es.SearchFunc(ctx, EventIndexName, query)
	if err != nil {
		return nil, err
	}

	docs := make([]EventDocument, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		doc := EventDocument{}
		if err := json.Unmarshal([]byte(hit.Source), &doc); err != nil {
			logrus.Warnf("failed to decode event document %s: %v", hit.Id, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
