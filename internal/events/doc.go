// Package events provides types and interfaces for publishing task lifecycle
// changes to interested components.
//
// The task dispatcher emits a StatusChangedEvent whenever a task moves between
// states; handlers such as the metrics collector subscribe without the
// dispatcher knowing about them.
//
// The primary components are:
// - StatusChangedEvent: Records one committed status transition
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
