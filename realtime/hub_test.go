package realtime

import "testing"

func TestHubJoinLeave(t *testing.T) {
	hub := NewHub()
	doctor := NewClient(1, "doctor")
	patient := NewClient(2, "patient")

	if offerer := hub.Join("appointment_1", doctor); !offerer {
		t.Error("first member should be the offerer")
	}
	if offerer := hub.Join("appointment_1", patient); offerer {
		t.Error("second member should not be the offerer")
	}
	if size := hub.RoomSize("appointment_1"); size != 2 {
		t.Errorf("RoomSize = %d, want 2", size)
	}

	hub.Leave("appointment_1", doctor)
	if size := hub.RoomSize("appointment_1"); size != 1 {
		t.Errorf("RoomSize after leave = %d, want 1", size)
	}

	// Once the room empties, a rejoin becomes the offerer again
	hub.Leave("appointment_1", patient)
	if size := hub.RoomSize("appointment_1"); size != 0 {
		t.Errorf("RoomSize after both left = %d, want 0", size)
	}
	if offerer := hub.Join("appointment_1", doctor); !offerer {
		t.Error("rejoining an emptied room should make the client the offerer")
	}
}

func TestHubBroadcastSkipsSender(t *testing.T) {
	hub := NewHub()
	sender := NewClient(1, "doctor")
	receiver := NewClient(2, "patient")
	hub.Join("emergency_5", sender)
	hub.Join("emergency_5", receiver)

	hub.Broadcast("emergency_5", sender, []byte("offer"))

	select {
	case payload := <-receiver.Send():
		if string(payload) != "offer" {
			t.Errorf("receiver got %q, want %q", payload, "offer")
		}
	default:
		t.Fatal("receiver should have gotten the frame")
	}

	select {
	case payload := <-sender.Send():
		t.Errorf("sender should not receive its own frame, got %q", payload)
	default:
	}
}

func TestHubBroadcastIsolatesRooms(t *testing.T) {
	hub := NewHub()
	a := NewClient(1, "doctor")
	b := NewClient(2, "patient")
	hub.Join("appointment_1", a)
	hub.Join("appointment_2", b)

	hub.Broadcast("appointment_1", a, []byte("ice-candidate"))

	select {
	case payload := <-b.Send():
		t.Errorf("client in another room got %q", payload)
	default:
	}
}

func TestHubBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	sender := NewClient(1, "doctor")
	slow := NewClient(2, "patient")
	hub.Join("appointment_9", sender)
	hub.Join("appointment_9", slow)

	// Fill the slow client's buffer and one more; the overflow frame is
	// dropped rather than blocking
	for i := 0; i < cap(slow.send)+1; i++ {
		hub.Broadcast("appointment_9", sender, []byte("frame"))
	}

	if got := len(slow.send); got != cap(slow.send) {
		t.Errorf("buffered frames = %d, want %d", got, cap(slow.send))
	}
}
