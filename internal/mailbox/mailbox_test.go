package mailbox

import "testing"

func TestDeliverToRegisteredHandler(t *testing.T) {
	m := New()
	var got []Action
	unregister := m.Register(func(a Action) { got = append(got, a) })
	defer unregister()

	m.Search("park")
	m.Route("museum")

	if len(got) != 2 {
		t.Fatalf("delivered %d actions, want 2", len(got))
	}
	if got[0] != (Action{Op: OpSearch, Query: "park"}) {
		t.Fatalf("first action: %+v", got[0])
	}
	if got[1] != (Action{Op: OpRoute, Query: "museum"}) {
		t.Fatalf("second action: %+v", got[1])
	}
	if m.Pending() {
		t.Fatal("nothing should be pending after delivery")
	}
}

func TestPendingDeliveredOnRegister(t *testing.T) {
	m := New()

	m.Route("cafe")
	if !m.Pending() {
		t.Fatal("expected pending action")
	}

	var got []Action
	m.Register(func(a Action) { got = append(got, a) })

	if len(got) != 1 || got[0].Query != "cafe" {
		t.Fatalf("pending not delivered on register: %v", got)
	}
	if m.Pending() {
		t.Fatal("pending slot not cleared after delivery")
	}
}

func TestPendingSlotHoldsOnlyLatest(t *testing.T) {
	m := New()
	m.Search("first")
	m.Search("second")
	m.Route("third")

	var got []Action
	m.Register(func(a Action) { got = append(got, a) })

	if len(got) != 1 {
		t.Fatalf("delivered %d actions, want only the latest", len(got))
	}
	if got[0] != (Action{Op: OpRoute, Query: "third"}) {
		t.Fatalf("latest action: %+v", got[0])
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	m := New()
	var got []Action
	unregister := m.Register(func(a Action) { got = append(got, a) })
	unregister()

	m.Search("park")
	if len(got) != 0 {
		t.Fatalf("delivered after unregister: %v", got)
	}
	if !m.Pending() {
		t.Fatal("action should buffer after unregister")
	}
}

func TestStaleUnregisterDoesNotDetachReplacement(t *testing.T) {
	m := New()
	staleUnregister := m.Register(func(Action) {})

	var got []Action
	m.Register(func(a Action) { got = append(got, a) })

	// The first screen unmounts after being replaced; its unregister must not
	// tear down the new subscriber.
	staleUnregister()

	m.Search("park")
	if len(got) != 1 {
		t.Fatalf("replacement handler lost: got %v", got)
	}
}
