// Package domain contains the core business entities, value objects, and
// domain logic of the game exchange: users, the games they own, and the
// trade offers exchanged between them. It represents the heart of the
// system, independent of any specific infrastructure or delivery mechanism.
package domain
