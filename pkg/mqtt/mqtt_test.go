package mqtt

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/google/go-cmp/cmp"
)

func TestHandleRequest(t *testing.T) {
	var seen map[string]interface{}
	callback := func(payload map[string]interface{}) (interface{}, error) {
		seen = payload
		return "ok", nil
	}

	resp, ok := handleRequest("warnings", []byte(`{"correlationId":"c1","payload":{"guildId":"g"}}`), callback)
	if !ok {
		t.Fatal("handleRequest() dropped a valid request")
	}
	if diff := cmp.Diff(MqttResponse{CorrelationID: "c1", Data: "ok"}, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
	if seen["guildId"] != "g" || seen["_topic"] != "warnings" {
		t.Errorf("callback payload = %v", seen)
	}
}

func TestHandleRequestErrors(t *testing.T) {
	failing := func(map[string]interface{}) (interface{}, error) {
		return nil, stderrors.New("boom")
	}

	resp, ok := handleRequest("warnings", []byte(`{"correlationId":"c1"}`), failing)
	if !ok || resp.Error != "boom" {
		t.Errorf("handleRequest() = %+v, %v", resp, ok)
	}

	if _, ok := handleRequest("warnings", []byte(`not json`), failing); ok {
		t.Error("handleRequest() accepted invalid JSON")
	}
	if _, ok := handleRequest("warnings", []byte(`{"payload":{}}`), failing); ok {
		t.Error("handleRequest() accepted a request without correlation ID")
	}
}

func TestResponseTopic(t *testing.T) {
	if got := responseTopic("warnings", "abc"); got != "pancymod/response/warnings/abc" {
		t.Errorf("responseTopic() = %q", got)
	}
}

func TestWarningsHandler(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	want := []models.Warning{{ID: "w1", Reason: "spam", Moderator: "m", Timestamp: now}}

	h := WarningsHandler(func(_ context.Context, guildID, userID string) ([]models.Warning, error) {
		if guildID == "g" && userID == "u" {
			return want, nil
		}
		return nil, nil
	})

	got, err := h(map[string]interface{}{"guildId": "g", "userId": "u"})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}

	empty, _ := h(map[string]interface{}{"guildId": "g", "userId": "other"})
	if ws, ok := empty.([]models.Warning); !ok || ws == nil || len(ws) != 0 {
		t.Errorf("unknown member returned %#v, want empty slice", empty)
	}

	if _, err := h(map[string]interface{}{"guildId": "g"}); err == nil {
		t.Error("handler accepted a request without userId")
	}
}

func TestPublishOffline(t *testing.T) {
	var mc *MqttCommunicator
	if mc.IsConnected() {
		t.Fatal("nil communicator reports connected")
	}
	if err := (&MqttCommunicator{}).Publish("pancymod/alerts/g", map[string]string{}); err == nil {
		t.Error("Publish() succeeded without a client")
	}
}
