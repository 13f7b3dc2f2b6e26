// Package models defines the domain records of the back office ledger.
//
// # Records
//
//   - User: a back-office account. Users double as the participant directory
//     for shared expenses and settlements.
//   - Participant: the identifier and display name the settlement engine sees.
//   - SharedExpense: an expense fronted by one payer and split among several people.
//   - Settlement: an obligation from a debtor to a creditor, PENDING until paid.
//
// # Design Principles
//
// 1. **Integer money**: every amount is a money.Money (cents), never a float.
// 2. **IDs, not pointers**: relationships reference participant IDs as strings.
// 3. **Derived, not stored**: balances are recomputed on every request and
//    have no model of their own.
package models
