package live

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubBroadcastReachesHostelSubscribers(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:   make(chan []byte, 10),
		Room:   "hostel-a",
		UserID: "porter-1",
	}
	hub.register <- client

	hub.BroadcastEvent(Event{
		Action:    ActionReserved,
		HostelID:  "hostel-a",
		StudentID: "stu-1",
	})

	select {
	case data := <-client.Send:
		var got Event
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if got.Action != ActionReserved || got.StudentID != "stu-1" {
			t.Fatalf("unexpected event: %+v", got)
		}
		if got.Timestamp == 0 {
			t.Fatal("expected timestamp to be stamped")
		}
	case <-time.After(time.Second):
		t.Fatal("client never received the broadcast")
	}
}

func TestHubBroadcastSkipsOtherHostels(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	other := &Client{
		Send: make(chan []byte, 10),
		Room: "hostel-b",
	}
	hub.register <- other

	hub.BroadcastEvent(Event{Action: ActionCheckedIn, HostelID: "hostel-a", StudentID: "stu-2"})

	select {
	case <-other.Send:
		t.Fatal("client in another hostel received the event")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "hostel-a",
	}
	hub.register <- client
	hub.unregister <- client

	select {
	case _, open := <-client.Send:
		if open {
			t.Fatal("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel never closed")
	}
}
