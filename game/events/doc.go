// Package events fans out match lifecycle events to passive listeners.
//
// Publishing never blocks. Every subscriber owns a bounded buffer, and when a
// subscriber falls behind the oldest buffered event is discarded to make
// room for the newest one. Listeners that miss events can always fall back
// to polling the session manager.
//
// Usage:
//
//	broker := events.NewBroker(256)
//	sub := broker.Subscribe()
//	defer sub.Close()
//
//	for ev := range sub.C() {
//		fmt.Println(ev.Type, ev.GameID)
//	}
package events
