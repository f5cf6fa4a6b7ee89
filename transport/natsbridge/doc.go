// Package natsbridge forwards arena events to NATS.
//
// Every event from the broker is marshalled to JSON and published on
// "<subject>.<type>", for example tron.events.game_finished, so consumers
// can subscribe to one kind of event or to "tron.events.>" for all of them.
package natsbridge
