// Package store defines interfaces for data persistence operations over
// users, games, and trade offers. These interfaces abstract the underlying
// data storage mechanism from the application's core logic, allowing
// business rules to remain independent of specific database technologies
// or persistence details.
package store
