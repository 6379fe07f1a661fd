// Package models defines the core domain models for Tallyup.
//
// # Input models
//
// These are supplied by the surrounding application (manual entry forms,
// receipt import, CRUD editors) and consumed read-only by the engine:
//   - Participant: a person taking part in a split
//   - LineItem: one line on a receipt, with an Assignment describing who
//     shares it and how
//   - Receipt: a grouping of line items with payer, tax and tip
//   - Settlement: a recorded payment between two participants
//   - Group: a reusable participant list that owns receipts
//   - User: a registered account (authentication only, not part of splits)
//
// # Derived models
//
// These exist only as outputs of a calculation pass and are recomputed from
// scratch whenever inputs change, never persisted or edited:
//   - ParticipantBalance, Transaction, Breakdown, ReceiptCheck, Summary
//
// # Design principles
//
//  1. Models carry no behavior beyond trivial accessors; all split and
//     settlement logic lives in the engine package.
//  2. Relationships use ID strings instead of pointers to avoid circular
//     references.
//  3. The engine never mutates input models; mutation belongs to the
//     service/storage layer, which re-runs the engine on every change.
package models
