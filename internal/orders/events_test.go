package orders

import (
	"testing"
	"time"

	kafkax "github.com/latavola/ordering/internal/kafka"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	payload := OrderCreatedPayload{
		OrderID: 7,
		UserID:  3,
		Items: []ItemSnapshot{
			{ItemID: 1, Quantity: 2, Price: 150},
			{ItemID: 2, Quantity: 1, Price: 450},
		},
		TotalAmount: 750,
	}
	ev := Envelope{
		EventID:       "evt-1",
		EventType:     EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      "ordering-api",
		CorrelationID: "7",
		Payload:       kafkax.MustMarshal(payload),
	}

	var decoded Envelope
	if err := kafkax.UnmarshalEnvelope(kafkax.MustMarshal(ev), &decoded); err != nil {
		t.Fatalf("UnmarshalEnvelope() error = %v", err)
	}
	if decoded.EventType != EventOrderCreated {
		t.Errorf("EventType = %q", decoded.EventType)
	}

	got, err := kafkax.UnwrapPayload[OrderCreatedPayload](decoded.Payload)
	if err != nil {
		t.Fatalf("UnwrapPayload() error = %v", err)
	}
	if got.OrderID != 7 || got.TotalAmount != 750 || len(got.Items) != 2 {
		t.Errorf("payload = %+v", got)
	}
	if got.Items[1].Price != 450 {
		t.Errorf("second item price = %v, want 450", got.Items[1].Price)
	}
}

func TestPartitionKey(t *testing.T) {
	if string(PartitionKey(42)) != "42" {
		t.Errorf("PartitionKey(42) = %q", PartitionKey(42))
	}
}
