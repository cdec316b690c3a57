package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EventType
		expected string
	}{
		{"created", EventTypeCreated, "created"},
		{"updated", EventTypeUpdated, "updated"},
		{"deleted", EventTypeDeleted, "deleted"},
		{"generated", EventTypeGenerated, "generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestEntityType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EntityType
		expected string
	}{
		{"reference rate", EntityTypeReferenceRate, "reference_rate"},
		{"rate package", EntityTypeRatePackage, "rate_package"},
		{"bank", EntityTypeBank, "bank"},
		{"report", EntityTypeReport, "report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"rateType":  "3M SORA",
		"rateValue": "3.25",
	}

	before := time.Now()
	evt := NewEvent(EventTypeUpdated, EntityTypeReferenceRate, payload)
	after := time.Now()

	assert.Equal(t, "reference_rate.updated", evt.Type)
	assert.Equal(t, EntityTypeReferenceRate, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before.UTC()) && !evt.Timestamp.After(after.UTC()))
}

func TestEvent_JSON_Serialization(t *testing.T) {
	fixedTime := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	payload := map[string]interface{}{
		"id":        float64(1),
		"rateType":  "3M SORA",
		"rateValue": "3.25",
	}

	evt := Event{
		Type:      "reference_rate.updated",
		Entity:    EntityTypeReferenceRate,
		Payload:   payload,
		Timestamp: fixedTime,
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded Event
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.Entity, decoded.Entity)
	assert.Equal(t, fixedTime.UTC(), decoded.Timestamp.UTC())

	// Payload should be preserved
	decodedPayload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), decodedPayload["id"])
	assert.Equal(t, "3M SORA", decodedPayload["rateType"])
	assert.Equal(t, "3.25", decodedPayload["rateValue"])
}

func TestEvent_ToJSON(t *testing.T) {
	payload := map[string]interface{}{
		"id": float64(42),
	}

	evt := NewEvent(EventTypeUpdated, EntityTypeRatePackage, payload)

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// Verify it's valid JSON
	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "rate_package.updated", decoded["type"])
	assert.Equal(t, "rate_package", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestRatePackageEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":   float64(1),
		"name": "2Y Fixed 2.88",
	}

	t.Run("RatePackageCreated", func(t *testing.T) {
		evt := RatePackageCreated(payload)
		assert.Equal(t, "rate_package.created", evt.Type)
		assert.Equal(t, EntityTypeRatePackage, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("RatePackageUpdated", func(t *testing.T) {
		evt := RatePackageUpdated(payload)
		assert.Equal(t, "rate_package.updated", evt.Type)
		assert.Equal(t, EntityTypeRatePackage, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("RatePackageDeleted", func(t *testing.T) {
		evt := RatePackageDeleted(payload)
		assert.Equal(t, "rate_package.deleted", evt.Type)
		assert.Equal(t, EntityTypeRatePackage, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})
}

func TestReferenceRateUpdated_Helper(t *testing.T) {
	payload := map[string]interface{}{
		"rateType":  "1M SORA",
		"rateValue": "3.05",
	}

	evt := ReferenceRateUpdated(payload)
	assert.Equal(t, "reference_rate.updated", evt.Type)
	assert.Equal(t, EntityTypeReferenceRate, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
}

func TestBankAndReportEvent_Helpers(t *testing.T) {
	t.Run("BankUpdated", func(t *testing.T) {
		evt := BankUpdated(map[string]interface{}{"id": float64(3)})
		assert.Equal(t, "bank.updated", evt.Type)
		assert.Equal(t, EntityTypeBank, evt.Entity)
	})

	t.Run("ReportGenerated", func(t *testing.T) {
		evt := ReportGenerated(map[string]interface{}{"clientName": "Tan Ah Kow"})
		assert.Equal(t, "report.generated", evt.Type)
		assert.Equal(t, EntityTypeReport, evt.Entity)
	})
}
