// Package models defines the storage-independent records of the ledger.
//
// # Records
//
//   - Bill: an invoice owned by one user, with a cached total
//   - Participant: a person on one bill, identified by display name
//   - LineItem: a priced line on a bill, ordered by SortOrder
//   - ShareRecord: the amount one participant owes for one line item
//   - PaymentRecord: the amount a person has paid, keyed by display name
//   - User: an account that can own bills and record payments
//
// # Identity of people
//
// The same person gets a new Participant ID on every bill. Participants are
// linked across bills only by an exact match on Name. Names are trimmed when
// entered and compared byte-for-byte afterwards, so "alice" and "Alice" are
// different people.
//
// Relationships use ID strings rather than pointers.
package models
