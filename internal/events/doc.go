// Package events publishes trade offer lifecycle transitions to loosely
// coupled subscribers.
//
// The trade service emits an OfferEvent after each committed transition
// (proposed, accepted, rejected, cancelled) without knowing which handlers
// will process it. The default subscriber writes each event to the
// structured log; additional handlers can be registered at startup.
//
// The primary components are:
// - OfferEvent: a record of one committed lifecycle transition
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
