package bus

import (
	"testing"

	"github.com/veldhuizen/scopick/pkg/catalog"
)

// TestPublishDeliversToAllSubscribers checks inline fan-out of item events.
func TestPublishDeliversToAllSubscribers(t *testing.T) {
	b := New()

	var got []ItemToggled
	b.SubscribeItemToggled(func(ev ItemToggled) { got = append(got, ev) })
	b.SubscribeItemToggled(func(ev ItemToggled) { got = append(got, ev) })

	b.PublishItemToggled(ItemToggled{Kind: catalog.KindCategory, Name: "Coffee", Selected: false})

	if len(got) != 2 {
		t.Fatalf("delivered to %d subscribers, want 2", len(got))
	}
	for _, ev := range got {
		if ev.Name != "Coffee" || ev.Selected {
			t.Errorf("delivered event = %+v, want Coffee/false", ev)
		}
	}
}

// TestPublishWithoutSubscribers must not block or panic.
func TestPublishWithoutSubscribers(t *testing.T) {
	b := New()
	b.PublishItemToggled(ItemToggled{Kind: catalog.KindGeography, Name: "Europe"})
	b.PublishSelectionCleared(SelectionCleared{Kind: catalog.KindGeography})
}

// TestPanickingSubscriberDoesNotStopDispatch verifies later subscribers
// still run after an earlier one panics.
func TestPanickingSubscriberDoesNotStopDispatch(t *testing.T) {
	b := New()

	b.SubscribeSelectionCleared(func(SelectionCleared) { panic("boom") })
	ran := false
	b.SubscribeSelectionCleared(func(SelectionCleared) { ran = true })

	b.PublishSelectionCleared(SelectionCleared{Kind: catalog.KindCategory})

	if !ran {
		t.Error("second subscriber did not run after first panicked")
	}
}

// TestClearEventsKeepKinds makes sure the payload carries the addressed
// kind through unchanged, since subscribers filter on it.
func TestClearEventsKeepKinds(t *testing.T) {
	b := New()

	var kinds []catalog.Kind
	b.SubscribeSelectionCleared(func(ev SelectionCleared) { kinds = append(kinds, ev.Kind) })

	b.PublishSelectionCleared(SelectionCleared{Kind: catalog.KindCategory})
	b.PublishSelectionCleared(SelectionCleared{Kind: catalog.KindGeography})

	if len(kinds) != 2 || kinds[0] != catalog.KindCategory || kinds[1] != catalog.KindGeography {
		t.Errorf("received kinds %v, want [category geography]", kinds)
	}
}
