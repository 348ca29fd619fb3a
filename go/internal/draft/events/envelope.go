package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultSubjectPrefix is the subject root for all draft events.
const DefaultSubjectPrefix = "draft.events"

// Envelope is the wire format shared by every publisher and consumer.
type Envelope struct {
	EventID   uuid.UUID       `json:"eventId"`
	EventType Type            `json:"eventType"`
	DraftID   uuid.UUID       `json:"draftId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEnvelope wraps ev for draftID with a fresh event id.
func NewEnvelope(draftID uuid.UUID, ev Event, at time.Time) (Envelope, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", ev.Type(), err)
	}
	return Envelope{
		EventID:   uuid.New(),
		EventType: ev.Type(),
		DraftID:   draftID,
		Timestamp: at.UTC(),
		Payload:   payload,
	}, nil
}

// Subject is the draft-scoped topic for the envelope: <prefix>.<draftId>.<type>.
func (e Envelope) Subject(prefix string) string {
	return fmt.Sprintf("%s.%s.%s", prefix, e.DraftID, e.EventType)
}

// Decode parses the payload back into its typed variant.
func (e Envelope) Decode() (Event, error) {
	switch e.EventType {
	case TypeDraftStarted:
		return decode[DraftStartedPayload](e)
	case TypePickMade:
		return decode[PickMadePayload](e)
	case TypePickSkipped:
		return decode[PickSkippedPayload](e)
	case TypeNextOnClock:
		return decode[NextOnClockPayload](e)
	case TypeAuctionNomination:
		return decode[AuctionNominationPayload](e)
	case TypeAuctionBid:
		return decode[AuctionBidPayload](e)
	case TypeAuctionResolved:
		return decode[AuctionResolvedPayload](e)
	case TypeDraftPaused:
		return decode[DraftPausedPayload](e)
	case TypeDraftResumed:
		return decode[DraftResumedPayload](e)
	case TypeDraftCompleted:
		return decode[DraftCompletedPayload](e)
	case TypePickUndone:
		return decode[PickUndonePayload](e)
	}
	return nil, fmt.Errorf("unknown event type: %s", e.EventType)
}

func decode[T Event](e Envelope) (Event, error) {
	var payload T
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", e.EventType, err)
	}
	return payload, nil
}
